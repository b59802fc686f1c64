// Package registry stores named command sets: ordered shell commands with a
// description and tags, launched as one line.
package registry

import (
	"database/sql"
	"strings"
)

// CommandSet represents a named workflow.
type CommandSet struct {
	ID          int64
	Name        string
	Description sql.NullString
	CreatedAt   string
	Commands    []Command
	Tags        []string
}

// Command is a single shell command within a CommandSet.
type Command struct {
	ID           int64
	CommandSetID int64
	Position     int
	Command      string
}

// Texts returns the command strings in order.
func (cs CommandSet) Texts() []string {
	out := make([]string, len(cs.Commands))
	for i, c := range cs.Commands {
		out[i] = c.Command
	}
	return out
}

// Line joins the commands of the set into one shell line that stops at the
// first failure.
func (cs CommandSet) Line() string {
	parts := make([]string, 0, len(cs.Commands))
	for _, c := range cs.Commands {
		if s := strings.TrimSpace(c.Command); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " && ")
}
