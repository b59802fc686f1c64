package registry

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateName checks whether name is acceptable for a command set. It does
// not mutate the input; use SanitizeName first to drop invisible characters.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: contains invalid encoding", ErrInvalidName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: contains control character U+%04X", ErrInvalidName, r)
		}
	}
	return nil
}

// SanitizeName drops control and zero-width characters and trims the name.
// It reports whether anything changed.
func SanitizeName(name string) (string, bool) {
	out := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case r == '\u200B', r == '\u200C', r == '\u200D', r == '\uFEFF':
			return -1
		}
		return r
	}, name)
	out = strings.TrimSpace(out)
	return out, out != name
}
