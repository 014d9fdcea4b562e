package picker

import (
	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	"github.com/atomicstack/pijul-channel-picker/internal/picker/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.closed {
		return nil
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch keyMsg.String() {
	case "esc", "ctrl+c":
		return m.dismiss()
	case "enter":
		return m.confirm(false)
	case "alt+enter", "ctrl+o":
		return m.confirm(true)
	case "up", "ctrl+p":
		m.moveSelection(-1)
	case "down", "ctrl+n":
		m.moveSelection(1)
	case "pgup":
		m.jumpSelection(-state.PageSize(m.maxVisibleItems(), m.delegate.MatchCount()))
	case "pgdown":
		m.jumpSelection(state.PageSize(m.maxVisibleItems(), m.delegate.MatchCount()))
	case "home":
		m.selectIndex(0)
	case "end":
		m.selectIndex(m.delegate.MatchCount() - 1)
	}
	return nil
}

func (m *Model) confirm(secondary bool) tea.Cmd {
	cmd := m.delegate.Confirm(secondary)
	if cmd == nil {
		events.Picker.ConfirmEmpty(m.name)
		return nil
	}
	label := ""
	if row, ok := m.delegate.RenderMatch(m.delegate.SelectedIndex(), true); ok {
		label = row.Label
	}
	events.Picker.Confirm(m.name, label, secondary)
	return cmd
}

func (m *Model) dismiss() tea.Cmd {
	m.closed = true
	events.Picker.Dismiss(m.name)
	return m.delegate.Dismissed()
}

// moveSelection steps the selection, wrapping past either end.
func (m *Model) moveSelection(delta int) {
	n := m.delegate.MatchCount()
	if n == 0 {
		return
	}
	m.selectIndex(state.Wrap(m.delegate.SelectedIndex(), delta, n))
}

// jumpSelection moves by delta without wrapping.
func (m *Model) jumpSelection(delta int) {
	m.selectIndex(m.delegate.SelectedIndex() + delta)
}

func (m *Model) selectIndex(ix int) {
	n := m.delegate.MatchCount()
	if n == 0 {
		return
	}
	ix = state.Clamp(ix, n)
	if ix != m.delegate.SelectedIndex() {
		m.delegate.SetSelectedIndex(ix)
		events.Picker.Cursor(m.name, m.delegate.SelectedIndex())
	}
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.viewport.Follow(m.delegate.SelectedIndex(), m.delegate.MatchCount(), m.maxVisibleItems())
}
