package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/launchr/internal/tui/sanitize"
)

const defaultWidth = 80

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0ea5a4")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	errTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	errText     = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#ef4444")).Padding(0, 1)
)

// View renders the query box, the merged results with the focused entry
// highlighted, the error panel and the status line.
func (m *TuiModel) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	list := m.merged()
	focus := m.cursor.Index(len(list))

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if len(list) == 0 {
		b.WriteString(mutedStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	for i, e := range list {
		b.WriteString(e.Item.Render(width, i == focus))
		b.WriteString("\n")
	}
	if panel := m.errorPanel(width); panel != "" {
		b.WriteString("\n")
		b.WriteString(panel)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine(len(list)))
	return b.String()
}

func (m *TuiModel) errorPanel(width int) string {
	errs := m.router.Registry().Errors()
	if len(errs) == 0 {
		return ""
	}
	inner := max(width-4, 10)
	var lines []string
	for _, pe := range errs {
		lines = append(lines, errTitle.Render(sanitize.Truncate(pe.Name, inner)))
		for _, msg := range pe.Messages {
			lines = append(lines, errText.Render(sanitize.Truncate("  "+msg, inner)))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *TuiModel) statusLine(shown int) string {
	total := m.router.Registry().Count()
	var help []string
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return mutedStyle.Render(fmt.Sprintf("showing %d of %d  ·  %s", shown, total, strings.Join(help, "  ")))
}
