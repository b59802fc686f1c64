package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/VoxDroid/launchr/internal/aggregate"
	"github.com/VoxDroid/launchr/internal/host"
)

// Update handles one event of the control loop.
func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 0)
		return m, nil

	case host.Completion:
		cmd := schedule(m.router.Deliver(msg))
		m.cursor.Clamp(len(m.merged()))
		return m, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row := msg.Y - resultsTop
		if row < 0 || row >= len(m.merged()) {
			return m, nil
		}
		return m, m.launch(row)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Launch):
			list := m.merged()
			return m, m.launch(m.cursor.Index(len(list)))
		case key.Matches(msg, m.keys.Next):
			m.cursor.Step(aggregate.Down, len(m.merged()))
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.cursor.Step(aggregate.Up, len(m.merged()))
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		return m, tea.Batch(cmd, schedule(m.router.SetFilter(text)))
	}
	return m, cmd
}

// launch dispatches the merged entry at focus and quits once the plugin's
// launch task has come back. With nothing to launch the UI stays open.
func (m *TuiModel) launch(focus int) tea.Cmd {
	if m.launched {
		return nil
	}
	pending, ok := m.router.Launch(m.merged(), focus)
	if !ok {
		return nil
	}
	m.launched = true
	m.log.Debug("launch dispatched", zap.Int("focus", focus), zap.Int("tasks", len(pending)))
	return tea.Sequence(schedule(pending), tea.Quit)
}
