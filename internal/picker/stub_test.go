package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type stubResultMsg struct {
	query string
	items []string
}

type stubConfirmMsg struct {
	item      string
	secondary bool
}

// stubDelegate filters by case-insensitive substring and highlights the
// matched run.
type stubDelegate struct {
	items     []string
	matches   []string
	selected  int
	queries   []string
	dismissed bool
	hints     map[string]string
}

func newStub(items ...string) *stubDelegate {
	return &stubDelegate{items: items}
}

func (d *stubDelegate) PlaceholderText() string { return "Select Item…" }
func (d *stubDelegate) MatchCount() int         { return len(d.matches) }
func (d *stubDelegate) SelectedIndex() int      { return d.selected }

func (d *stubDelegate) SetSelectedIndex(ix int) {
	if ix < 0 || len(d.matches) == 0 {
		ix = 0
	} else if ix >= len(d.matches) {
		ix = len(d.matches) - 1
	}
	d.selected = ix
}

func (d *stubDelegate) UpdateMatches(query string) tea.Cmd {
	d.queries = append(d.queries, query)
	if strings.TrimSpace(query) == "" {
		d.matches = append([]string(nil), d.items...)
		d.selected = 0
		return nil
	}
	items := d.items
	return func() tea.Msg {
		var out []string
		for _, item := range items {
			if strings.Contains(strings.ToLower(item), strings.ToLower(strings.TrimSpace(query))) {
				out = append(out, item)
			}
		}
		return stubResultMsg{query: query, items: out}
	}
}

func (d *stubDelegate) HandleMsg(msg tea.Msg) bool {
	res, ok := msg.(stubResultMsg)
	if !ok {
		return false
	}
	d.matches = res.items
	d.SetSelectedIndex(d.selected)
	return true
}

func (d *stubDelegate) Confirm(secondary bool) tea.Cmd {
	if len(d.matches) == 0 {
		return nil
	}
	item := d.matches[d.selected]
	return func() tea.Msg { return stubConfirmMsg{item: item, secondary: secondary} }
}

func (d *stubDelegate) Dismissed() tea.Cmd {
	d.dismissed = true
	return func() tea.Msg { return DismissMsg{} }
}

func (d *stubDelegate) RenderMatch(ix int, selected bool) (Row, bool) {
	if ix < 0 || ix >= len(d.matches) {
		return Row{}, false
	}
	label := d.matches[ix]
	row := Row{Label: label, Selected: selected, Hint: d.hints[label]}
	if q := strings.TrimSpace(d.lastQuery()); q != "" {
		if at := strings.Index(strings.ToLower(label), strings.ToLower(q)); at >= 0 {
			start := len([]rune(label[:at]))
			for i := range []rune(q) {
				row.Positions = append(row.Positions, start+i)
			}
		}
	}
	return row, true
}

func (d *stubDelegate) lastQuery() string {
	if len(d.queries) == 0 {
		return ""
	}
	return d.queries[len(d.queries)-1]
}

// recorder wraps a Model and keeps messages the Model passes upward.
type recorder struct {
	*Model
	confirmed []stubConfirmMsg
	dismissed int
}

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stubConfirmMsg:
		r.confirmed = append(r.confirmed, msg)
		return r, nil
	case DismissMsg:
		r.dismissed++
		return r, nil
	}
	_, cmd := r.Model.Update(msg)
	return r, cmd
}

func newTestHarness(opts Options, items ...string) (*Harness, *recorder, *stubDelegate) {
	d := newStub(items...)
	opts.StaticCursor = true
	rec := &recorder{Model: New(d, opts)}
	h := NewHarness(rec)
	h.Init()
	return h, rec, d
}
