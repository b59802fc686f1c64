package recorder

import (
	"slices"
	"strings"
	"testing"
)

func TestRecordCommands(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"blank and comments", "# comment line\necho one\n\n# another\necho two  \n", []string{"echo one", "echo two"}},
		{"ctrl-z alone", "\x1A", nil},
		{"ctrl-z mid line", "echo before\x1Aecho after\necho later\n", []string{"echo before"}},
		{"caret z alone", "^Z\necho later\n", nil},
		{"caret z mid line", "echo before^Zecho after\n", []string{"echo before"}},
		{"sentinel", "echo one\n:end\necho two\n", []string{"echo one"}},
		{"sentinel aliases", "  :save  \n", nil},
		{"quit", ":quit\n", nil},
		{"sentinel inside a command", "echo :end something\n", []string{"echo :end something"}},
		{"no trailing newline", "make build", []string{"make build"}},
	}
	for _, tc := range cases {
		got, err := RecordCommands(strings.NewReader(tc.input))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
