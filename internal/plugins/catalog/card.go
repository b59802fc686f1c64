package catalog

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0b1226")).Background(lipgloss.Color("#0ea5a4"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Italic(true)
	focusDetail = lipgloss.NewStyle().Foreground(lipgloss.Color("#0b1226")).Background(lipgloss.Color("#0ea5a4"))
)

// Card renders an item as a title with an optional dimmed detail after it.
type Card struct {
	Title  string
	Detail string
}

// Render implements contract.Renderable.
func (c Card) Render(width int, focused bool) string {
	title, detail := titleStyle, detailStyle
	if focused {
		title, detail = focusStyle, focusDetail
	}
	line := title.Render(" " + c.Title + " ")
	if c.Detail != "" {
		line += detail.Render(c.Detail + " ")
	}
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
