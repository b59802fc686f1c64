// Package sanitize cleans plugin supplied text before it reaches the
// terminal. Plugins are untrusted: an error string may carry escape sequences
// that switch screens, move the cursor or set the window title.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// Precompiled regexps used by Line.
var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	escRe = regexp.MustCompile(`\x1b[@-Z\\-_]`)
)

// Line reduces in to a single printable line. Escape sequences are removed,
// line breaks and tabs become spaces and other control characters are
// dropped. Runs of spaces are collapsed and the result is trimmed.
func Line(in string) string {
	out := oscRe.ReplaceAllString(in, "")
	out = csiRe.ReplaceAllString(out, "")
	out = escRe.ReplaceAllString(out, "")

	var b strings.Builder
	b.Grow(len(out))
	space := false
	for _, r := range out {
		switch {
		case r == '\n' || r == '\r' || r == '\t' || r == ' ':
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens s to at most width runes, marking the cut with an
// ellipsis. A width below 1 returns s unchanged.
func Truncate(s string, width int) string {
	if width < 1 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(rs[:width-1]) + "…"
}
