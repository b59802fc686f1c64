// Package recorder reads the commands of a new command set from a stream,
// one per line, as typed at a terminal or piped from a file.
package recorder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// sentinels end the recording when they are alone on a line.
var sentinels = map[string]bool{":end": true, ":save": true, ":quit": true}

// RecordCommands reads lines from r and returns the commands in them. Blank
// lines and lines starting with '#' are skipped. Reading stops at EOF, at a
// sentinel line, or at a Ctrl+Z (raw or typed as ^Z); text after a Ctrl+Z on
// the same line is dropped.
func RecordCommands(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	var out []string
	for s.Scan() {
		line, stop := cutEOF(s.Text())
		line = strings.TrimSpace(line)
		if sentinels[line] {
			break
		}
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
		if stop {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return out, nil
}

func cutEOF(line string) (string, bool) {
	i := strings.IndexByte(line, 0x1A)
	if j := strings.Index(line, "^Z"); j >= 0 && (i < 0 || j < i) {
		i = j
	}
	if i < 0 {
		return line, false
	}
	return line[:i], true
}
