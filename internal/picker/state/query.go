package state

import (
	"strings"
	"unicode"
)

// Query holds the picker's search text and the caret as a rune offset.
type Query struct {
	Text   string
	Cursor int
}

// Trimmed returns the query with surrounding whitespace removed.
func (q *Query) Trimmed() string {
	return strings.TrimSpace(q.Text)
}

// Set replaces the query text and clamps the caret into range.
func (q *Query) Set(text string, cursor int) {
	q.Text = text
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	q.Cursor = cursor
}

// CursorPos returns the caret clamped to the current text.
func (q *Query) CursorPos() int {
	runes := []rune(q.Text)
	if q.Cursor < 0 {
		return 0
	}
	if q.Cursor > len(runes) {
		return len(runes)
	}
	return q.Cursor
}

// Clear empties the query. It reports whether anything changed.
func (q *Query) Clear() bool {
	if q.Text == "" && q.Cursor == 0 {
		return false
	}
	q.Set("", 0)
	return true
}

// Insert places text at the caret.
func (q *Query) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(q.Text)
	pos := q.CursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	q.Set(string(updated), pos+len(insert))
	return true
}

// DeleteRuneBackward removes the rune before the caret.
func (q *Query) DeleteRuneBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos == 0 {
		return false
	}
	updated := append(runes[:pos-1:pos-1], runes[pos:]...)
	q.Set(string(updated), pos-1)
	return true
}

// DeleteWordBackward removes the word preceding the caret along with any
// whitespace between it and the caret.
func (q *Query) DeleteWordBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos == 0 {
		return false
	}
	i := wordStartBefore(runes, pos)
	updated := append(runes[:i:i], runes[pos:]...)
	q.Set(string(updated), i)
	return true
}

func (q *Query) MoveStart() bool {
	if q.CursorPos() == 0 {
		return false
	}
	q.Cursor = 0
	return true
}

func (q *Query) MoveEnd() bool {
	end := len([]rune(q.Text))
	if q.CursorPos() == end {
		return false
	}
	q.Cursor = end
	return true
}

func (q *Query) MoveWordBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	i := wordStartBefore(runes, pos)
	if i == pos {
		return false
	}
	q.Cursor = i
	return true
}

func (q *Query) MoveWordForward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	q.Cursor = i
	return true
}

func (q *Query) MoveRuneBackward() bool {
	pos := q.CursorPos()
	if pos == 0 {
		return false
	}
	q.Cursor = pos - 1
	return true
}

func (q *Query) MoveRuneForward() bool {
	pos := q.CursorPos()
	if pos >= len([]rune(q.Text)) {
		return false
	}
	q.Cursor = pos + 1
	return true
}

func wordStartBefore(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}
