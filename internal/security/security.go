// Package security screens shell lines before the launcher runs them.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBlocked is returned for a command that matches a destructive pattern.
var ErrBlocked = errors.New("command appears destructive or unsafe")

// ErrEmpty is returned for a blank command.
var ErrEmpty = errors.New("empty command")

type rule struct {
	name string
	re   *regexp.Regexp
}

var rules = []rule{
	{"recursive delete of /", regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+/`)},
	{"filesystem creation", regexp.MustCompile(`(?i)\bmkfs\b`)},
	{"raw disk write", regexp.MustCompile(`(?i)\bdd\s+if=`)},
	{"fork bomb", regexp.MustCompile(`:\(\)\s*\{`)},
	{"package removal", regexp.MustCompile(`(?i)\b(apt-get|apt|yum|dnf)\s+remove\s+`)},
	{"signature wipe", regexp.MustCompile(`(?i)\bwipefs\b`)},
	{"write to block device", regexp.MustCompile(`>\s*/dev/(sd|nvme|hd)`)},
}

// CheckAllowed returns nil if command may run, or an error wrapping
// ErrBlocked that names the matched rule. The check is conservative and not
// exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return ErrEmpty
	}
	for _, r := range rules {
		if r.re.MatchString(cmd) {
			return fmt.Errorf("%w: %s", ErrBlocked, r.name)
		}
	}
	return nil
}
