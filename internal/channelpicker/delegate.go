// Package channelpicker lets the user choose a pijul channel. Delegate plugs
// channel matching into the generic picker; Modal hosts the picker and acts on
// the user's choice.
package channelpicker

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/pijul-channel-picker/internal/fuzzy"
	"github.com/atomicstack/pijul-channel-picker/internal/logging"
	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	"github.com/atomicstack/pijul-channel-picker/internal/picker"
	"github.com/atomicstack/pijul-channel-picker/internal/picker/state"
	"github.com/atomicstack/pijul-channel-picker/internal/pijul"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pickerName         = "channel"
	DefaultPlaceholder = "Select Channel…"
	currentHint        = "(current)"
)

// Entry is a channel that matched the current query. Positions are rune
// indices into Channel.Name.
type Entry struct {
	Channel   pijul.Channel
	Positions []int
}

// ConfirmedMsg reports the entry the user accepted. Secondary is set for the
// alternate confirm key.
type ConfirmedMsg struct {
	Entry     Entry
	Secondary bool
}

type matchesMsg struct {
	epoch   uint64
	query   string
	entries []Entry
	err     error
}

// Options tunes the delegate.
type Options struct {
	Placeholder string
	Match       fuzzy.Options
}

// DefaultOptions returns smart-case matching capped at 100 results.
func DefaultOptions() Options {
	return Options{Placeholder: DefaultPlaceholder, Match: fuzzy.DefaultOptions()}
}

// Delegate implements picker.Delegate over the channels of one repository.
// Channels are loaded once at construction. Every UpdateMatches bumps an
// epoch; a result is applied only if its epoch is still current, so results
// land in query order regardless of completion order.
type Delegate struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	channels   []pijul.Channel
	candidates []fuzzy.Candidate

	matches   []Entry
	selected  int
	epoch     uint64
	dismissed bool
}

var _ picker.Delegate = (*Delegate)(nil)

// NewDelegate lists the channels of repo and shows all of them.
func NewDelegate(ctx context.Context, repo pijul.Repository, opts Options) *Delegate {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	channels := repo.ListChannels(ctx)
	return newDelegate(ctx, channels, opts)
}

func newDelegate(ctx context.Context, channels []pijul.Channel, opts Options) *Delegate {
	ctx, cancel := context.WithCancel(ctx)
	d := &Delegate{
		ctx:      ctx,
		cancel:   cancel,
		opts:     opts,
		channels: pijul.CloneChannels(channels),
	}
	d.candidates = make([]fuzzy.Candidate, len(d.channels))
	for i, ch := range d.channels {
		d.candidates[i] = fuzzy.Candidate{ID: i, Text: ch.Name}
	}
	d.matches = d.allEntries()
	return d
}

func (d *Delegate) PlaceholderText() string {
	return d.opts.Placeholder
}

func (d *Delegate) MatchCount() int {
	return len(d.matches)
}

func (d *Delegate) SelectedIndex() int {
	return d.selected
}

// SetSelectedIndex moves the selection, clamping ix into range.
func (d *Delegate) SetSelectedIndex(ix int) {
	if d.dismissed {
		return
	}
	d.selected = state.Clamp(ix, len(d.matches))
}

// Channels returns the channels loaded at construction.
func (d *Delegate) Channels() []pijul.Channel {
	return pijul.CloneChannels(d.channels)
}

// Matches returns the visible entries in display order.
func (d *Delegate) Matches() []Entry {
	out := make([]Entry, len(d.matches))
	copy(out, d.matches)
	return out
}

// UpdateMatches starts filtering for query. An empty (or blank) query is
// applied immediately and resets the selection to the top; anything else
// returns a command that scores channels off the update loop.
func (d *Delegate) UpdateMatches(query string) tea.Cmd {
	if d.dismissed {
		return nil
	}
	d.epoch++
	epoch := d.epoch
	trimmed := strings.TrimSpace(query)
	events.Filter.Issue(pickerName, epoch, trimmed)
	if trimmed == "" {
		d.matches = d.allEntries()
		d.selected = 0
		events.Filter.Applied(pickerName, epoch, len(d.matches))
		return nil
	}

	ctx := d.ctx
	channels := d.channels
	candidates := d.candidates
	opts := d.opts.Match
	return func() tea.Msg {
		found, err := fuzzy.MatchStrings(ctx, candidates, trimmed, opts)
		if err != nil {
			return matchesMsg{epoch: epoch, query: trimmed, err: err}
		}
		entries := make([]Entry, len(found))
		for i, m := range found {
			entries[i] = Entry{Channel: channels[m.CandidateID], Positions: m.Positions}
		}
		return matchesMsg{epoch: epoch, query: trimmed, entries: entries}
	}
}

// HandleMsg applies match results. Results from a superseded query or
// arriving after dismissal are dropped.
func (d *Delegate) HandleMsg(msg tea.Msg) bool {
	res, ok := msg.(matchesMsg)
	if !ok {
		return false
	}
	if d.dismissed || res.epoch != d.epoch {
		events.Filter.Stale(pickerName, res.epoch, d.epoch)
		return true
	}
	if res.err != nil {
		logging.Error(fmt.Errorf("match channels for %q: %w", res.query, res.err))
		events.Filter.Failed(pickerName, res.epoch, res.err)
		return true
	}
	d.matches = res.entries
	d.selected = state.Clamp(d.selected, len(d.matches))
	events.Filter.Applied(pickerName, res.epoch, len(d.matches))
	return true
}

// Confirm emits a ConfirmedMsg for the selected entry. It does nothing when
// there are no matches.
func (d *Delegate) Confirm(secondary bool) tea.Cmd {
	if d.dismissed || len(d.matches) == 0 {
		return nil
	}
	entry := d.matches[state.Clamp(d.selected, len(d.matches))]
	return func() tea.Msg {
		return ConfirmedMsg{Entry: entry, Secondary: secondary}
	}
}

// Dismissed invalidates any in-flight filtering and emits picker.DismissMsg.
// Subsequent calls are no-ops.
func (d *Delegate) Dismissed() tea.Cmd {
	if d.dismissed {
		return nil
	}
	d.dismissed = true
	d.epoch++
	d.cancel()
	return func() tea.Msg {
		return picker.DismissMsg{}
	}
}

func (d *Delegate) RenderMatch(ix int, selected bool) (picker.Row, bool) {
	if ix < 0 || ix >= len(d.matches) {
		return picker.Row{}, false
	}
	entry := d.matches[ix]
	row := picker.Row{
		Label:     entry.Channel.Name,
		Positions: entry.Positions,
		Selected:  selected,
	}
	if entry.Channel.Current {
		row.Hint = currentHint
	}
	return row, true
}

func (d *Delegate) allEntries() []Entry {
	entries := make([]Entry, len(d.channels))
	for i, ch := range d.channels {
		entries[i] = Entry{Channel: ch}
	}
	return entries
}
