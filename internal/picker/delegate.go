package picker

import tea "github.com/charmbracelet/bubbletea"

// Row is the display projection of one match.
type Row struct {
	Label string
	// Positions are rune indices into Label to highlight.
	Positions []int
	Selected  bool
	// Hint is rendered dimmed after the label when set.
	Hint string
}

// DismissMsg is emitted once a delegate has been dismissed.
type DismissMsg struct{}

// Delegate supplies the candidates, matching and confirmation behaviour for a
// Model. All methods are called from the Bubble Tea update loop.
type Delegate interface {
	PlaceholderText() string
	MatchCount() int
	SelectedIndex() int
	SetSelectedIndex(ix int)
	// UpdateMatches starts a filter pass for query. A non-nil command computes
	// the result off the update loop; its message is later routed back through
	// HandleMsg.
	UpdateMatches(query string) tea.Cmd
	// HandleMsg applies messages produced by UpdateMatches commands and
	// reports whether msg belonged to the delegate.
	HandleMsg(msg tea.Msg) bool
	Confirm(secondary bool) tea.Cmd
	Dismissed() tea.Cmd
	RenderMatch(ix int, selected bool) (Row, bool)
}
