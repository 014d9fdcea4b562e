package picker

import (
	"unicode"

	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	queryPrompt        = "» "
	defaultPlaceholder = "(type to search)"
)

func (m *Model) updateQueryCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.queryCursor, cmd = m.queryCursor.Update(msg)
	return cmd
}

func (m *Model) noteQueryCursorChange(before int) {
	if before != m.query.CursorPos() {
		m.queryCursorDirty = true
	}
}

// handleTextInput applies query editing keys. It reports whether the key was
// consumed and returns the delegate's command when the query text changed.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	before := m.query.CursorPos()
	switch msg.String() {
	case "ctrl+u":
		if !m.query.Clear() {
			return false, nil
		}
		m.noteQueryCursorChange(before)
		events.Filter.Cleared(m.name)
		return true, m.queryChanged()
	case "ctrl+w":
		if !m.query.DeleteWordBackward() {
			return false, nil
		}
		m.noteQueryCursorChange(before)
		events.Filter.WordBackspace(m.name, m.query.Text)
		return true, m.queryChanged()
	case "ctrl+a":
		return m.moveQueryCursor(before, m.query.MoveStart), nil
	case "ctrl+e":
		return m.moveQueryCursor(before, m.query.MoveEnd), nil
	case "alt+b":
		return m.moveQueryCursor(before, m.query.MoveWordBackward), nil
	case "alt+f":
		return m.moveQueryCursor(before, m.query.MoveWordForward), nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !m.query.DeleteRuneBackward() {
			return false, nil
		}
		m.noteQueryCursorChange(before)
		events.Filter.Backspace(m.name, m.query.Text)
		return true, m.queryChanged()
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		return true, m.insertText(before, string(msg.Runes))
	case tea.KeySpace:
		return true, m.insertText(before, " ")
	case tea.KeyLeft:
		return m.moveQueryCursor(before, m.query.MoveRuneBackward), nil
	case tea.KeyRight:
		return m.moveQueryCursor(before, m.query.MoveRuneForward), nil
	}
	return false, nil
}

func (m *Model) insertText(before int, text string) tea.Cmd {
	if !m.query.Insert(text) {
		return nil
	}
	m.noteQueryCursorChange(before)
	events.Filter.Append(m.name, m.query.Text)
	return m.queryChanged()
}

func (m *Model) moveQueryCursor(before int, move func() bool) bool {
	if !move() {
		return false
	}
	m.noteQueryCursorChange(before)
	events.Filter.Cursor(m.name, m.query.Cursor)
	return true
}

func (m *Model) queryChanged() tea.Cmd {
	m.errMsg = ""
	m.forceClearInfo()
	cmd := m.delegate.UpdateMatches(m.query.Text)
	m.syncViewport()
	return cmd
}

func (m *Model) placeholder() string {
	if text := m.delegate.PlaceholderText(); text != "" {
		return text
	}
	return defaultPlaceholder
}

func (m *Model) queryPromptLine() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.queryCursor.Style = styles.Cursor.Copy()
	}
	if styles.Query != nil {
		m.queryCursor.TextStyle = styles.Query.Copy()
	} else {
		m.queryCursor.TextStyle = lipgloss.Style{}
	}
	prompt := render(styles.QueryPrompt, queryPrompt)
	if m.query.Text == "" {
		runes := []rune(m.placeholder())
		var caretRune, rest string
		if len(runes) > 0 {
			caretRune = string(runes[0])
			rest = string(runes[1:])
		}
		if styles.Placeholder != nil {
			m.queryCursor.TextStyle = styles.Placeholder.Copy()
		}
		return prompt + m.renderQueryCursor(caretRune) + render(styles.Placeholder, rest)
	}
	runes := []rune(m.query.Text)
	pos := m.query.CursorPos()
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Query, string(runes[pos+1:]))
	}
	return prompt + render(styles.Query, string(runes[:pos])) + m.renderQueryCursor(caretRune) + after
}

func (m *Model) renderQueryCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.queryCursor.SetChar(char)

	base := m.queryCursor.TextStyle.Copy().Inline(true)
	if m.queryCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
