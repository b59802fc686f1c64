// Package ui is the terminal front end of the launcher: a query box over the
// merged, focus-highlighted result list of every loaded plugin.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/VoxDroid/launchr/internal/aggregate"
	"github.com/VoxDroid/launchr/internal/host"
)

// resultsTop is the screen row of the first result: the query box and a
// blank line come before it.
const resultsTop = 2

// TuiModel is the Bubble Tea model driving the router and the aggregator.
type TuiModel struct {
	router     *host.Router
	maxEntries int
	initial    []host.Pending
	log        *zap.Logger

	input  textinput.Model
	keys   keyMap
	cursor aggregate.Cursor

	width    int
	height   int
	launched bool
}

// Option configures a TuiModel.
type Option func(*TuiModel)

// WithLogger sets the logger. The default discards.
func WithLogger(log *zap.Logger) Option {
	return func(m *TuiModel) {
		if log != nil {
			m.log = log
		}
	}
}

// NewModel returns a model over router showing at most maxEntries merged
// entries.
// initial holds the constructor tasks of the loaded plugins; they start
// with the program.
func NewModel(router *host.Router, maxEntries int, initial []host.Pending, opts ...Option) *TuiModel {
	ti := textinput.New()
	ti.Placeholder = "Search"
	ti.Prompt = "❯ "
	ti.PromptStyle = promptStyle
	ti.Focus()

	m := &TuiModel{
		router:     router,
		maxEntries: maxEntries,
		initial:    initial,
		log:        zap.NewNop(),
		input:      ti,
		keys:       defaultKeys(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(m *TuiModel) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
}

// Init starts the cursor blink and the plugins' constructor tasks.
func (m *TuiModel) Init() tea.Cmd {
	initial := m.initial
	m.initial = nil
	return tea.Batch(textinput.Blink, schedule(initial))
}

// Launched reports whether an entry was dispatched for launch.
func (m *TuiModel) Launched() bool { return m.launched }

// schedule turns routed tasks into commands. Each runs off the event loop
// and comes back as a host.Completion.
func schedule(pending []host.Pending) tea.Cmd {
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(pending))
	for _, p := range pending {
		p := p
		cmds = append(cmds, func() tea.Msg { return p.Run() })
	}
	return tea.Batch(cmds...)
}

func (m *TuiModel) merged() aggregate.List {
	return m.router.Registry().Merge(m.maxEntries)
}
