package channelpicker

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/atomicstack/pijul-channel-picker/internal/fuzzy"
	"github.com/atomicstack/pijul-channel-picker/internal/picker"
	"github.com/atomicstack/pijul-channel-picker/internal/pijul"
	"github.com/atomicstack/pijul-channel-picker/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"
)

type fataler interface {
	Fatalf(format string, args ...any)
}

func newTestDelegate(_ fataler, names ...string) *Delegate {
	channels := make([]pijul.Channel, len(names))
	for i, name := range names {
		channels[i] = pijul.Channel{Name: name}
	}
	repo := &pijul.FakeRepository{Channels: channels}
	return NewDelegate(context.Background(), repo, DefaultOptions())
}

func matchNames(d *Delegate) []string {
	names := make([]string, 0, d.MatchCount())
	for _, e := range d.Matches() {
		names = append(names, e.Channel.Name)
	}
	return names
}

// apply runs the command returned by UpdateMatches and hands its message back.
func apply(t fataler, d *Delegate, query string) {
	if cmd := d.UpdateMatches(query); cmd != nil {
		if !d.HandleMsg(cmd()) {
			t.Fatalf("expected delegate to claim its own result")
		}
	}
}

func TestNewDelegateShowsAllChannels(t *testing.T) {
	d := newTestDelegate(t, "main", "dev")
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main", "dev"}) {
		t.Fatalf("expected all channels, got %v", got)
	}
	if d.PlaceholderText() != "Select Channel…" {
		t.Fatalf("unexpected placeholder %q", d.PlaceholderText())
	}
}

func TestPlaceholderOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.Placeholder = "Pick one"
	d := NewDelegate(context.Background(), &pijul.FakeRepository{}, opts)
	if d.PlaceholderText() != "Pick one" {
		t.Fatalf("expected custom placeholder, got %q", d.PlaceholderText())
	}
}

func TestUpdateMatchesRanksPrefixMatches(t *testing.T) {
	d := newTestDelegate(t, "main", "feature-x", "main-2")
	apply(t, d, "main")
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main", "main-2"}) {
		t.Fatalf("expected [main main-2], got %v", got)
	}
	for _, e := range d.Matches() {
		if !reflect.DeepEqual(e.Positions, []int{0, 1, 2, 3}) {
			t.Fatalf("expected highlight of the prefix in %q, got %v", e.Channel.Name, e.Positions)
		}
	}
}

func TestEmptyQueryIsSynchronous(t *testing.T) {
	d := newTestDelegate(t, "alpha", "beta")
	apply(t, d, "al")
	d.SetSelectedIndex(0)
	if cmd := d.UpdateMatches(""); cmd != nil {
		t.Fatalf("expected empty query to apply without a command")
	}
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("expected both channels, got %v", got)
	}
	for _, e := range d.Matches() {
		if len(e.Positions) != 0 {
			t.Fatalf("expected no highlights, got %v", e.Positions)
		}
	}
	if cmd := d.UpdateMatches("   "); cmd != nil {
		t.Fatalf("expected blank query to be treated as empty")
	}
}

func TestEmptyQueryResetsSelection(t *testing.T) {
	d := newTestDelegate(t, "a", "b", "c")
	d.SetSelectedIndex(2)
	d.UpdateMatches("")
	if d.SelectedIndex() != 0 {
		t.Fatalf("expected selection reset to 0, got %d", d.SelectedIndex())
	}
}

func TestLatestQueryWinsRegardlessOfCompletionOrder(t *testing.T) {
	d := newTestDelegate(t, "main", "mx", "dev")
	first := d.UpdateMatches("m")
	second := d.UpdateMatches("ma")
	if first == nil || second == nil {
		t.Fatalf("expected asynchronous commands for non-empty queries")
	}

	d.HandleMsg(second())
	d.HandleMsg(first())
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main"}) {
		t.Fatalf("expected only results for 'ma', got %v", got)
	}

	third := d.UpdateMatches("m")
	fourth := d.UpdateMatches("d")
	d.HandleMsg(third())
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main"}) {
		t.Fatalf("expected superseded result to be dropped, got %v", got)
	}
	d.HandleMsg(fourth())
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"dev"}) {
		t.Fatalf("expected results for 'd', got %v", got)
	}
}

func TestEmptyQuerySupersedesPendingResult(t *testing.T) {
	d := newTestDelegate(t, "main", "dev")
	pending := d.UpdateMatches("dev")
	d.UpdateMatches("")
	d.HandleMsg(pending())
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main", "dev"}) {
		t.Fatalf("expected unfiltered list to survive a late result, got %v", got)
	}
}

func TestSelectionKeepsIndexWhenStillInRange(t *testing.T) {
	d := newTestDelegate(t, "ab-1", "ab-2", "ab-3", "ab-4")
	d.SetSelectedIndex(2)
	apply(t, d, "ab")
	if d.MatchCount() != 4 {
		t.Fatalf("expected four matches, got %v", matchNames(d))
	}
	if d.SelectedIndex() != 2 {
		t.Fatalf("expected selection to stay at 2, got %d", d.SelectedIndex())
	}
}

func TestSelectionClampsWhenListShrinks(t *testing.T) {
	d := newTestDelegate(t, "ab-1", "ab-2", "xy-3", "xy-4")
	d.SetSelectedIndex(3)
	apply(t, d, "ab")
	if d.MatchCount() != 2 {
		t.Fatalf("expected two matches, got %v", matchNames(d))
	}
	if d.SelectedIndex() != 1 {
		t.Fatalf("expected selection clamped to last index, got %d", d.SelectedIndex())
	}
	apply(t, d, "zzz")
	if d.MatchCount() != 0 || d.SelectedIndex() != 0 {
		t.Fatalf("expected empty list with selection 0, got %d/%d", d.MatchCount(), d.SelectedIndex())
	}
}

func TestSetSelectedIndexClamps(t *testing.T) {
	d := newTestDelegate(t, "a", "b")
	d.SetSelectedIndex(9)
	if d.SelectedIndex() != 1 {
		t.Fatalf("expected clamp to 1, got %d", d.SelectedIndex())
	}
	d.SetSelectedIndex(-3)
	if d.SelectedIndex() != 0 {
		t.Fatalf("expected clamp to 0, got %d", d.SelectedIndex())
	}
}

func TestConfirmEmitsSelectedEntry(t *testing.T) {
	d := newTestDelegate(t, "main", "dev")
	d.SetSelectedIndex(1)
	cmd := d.Confirm(true)
	if cmd == nil {
		t.Fatalf("expected confirm command")
	}
	msg, ok := cmd().(ConfirmedMsg)
	if !ok {
		t.Fatalf("expected ConfirmedMsg")
	}
	if msg.Entry.Channel.Name != "dev" || !msg.Secondary {
		t.Fatalf("unexpected confirmation %#v", msg)
	}
}

func TestConfirmWithNoMatchesIsNoop(t *testing.T) {
	d := newTestDelegate(t, "main")
	apply(t, d, "zzz")
	if cmd := d.Confirm(false); cmd != nil {
		t.Fatalf("expected no command with zero matches")
	}
	empty := newTestDelegate(t)
	if cmd := empty.Confirm(false); cmd != nil {
		t.Fatalf("expected no command for an empty repository")
	}
}

func TestDismissedInvalidatesInFlightResults(t *testing.T) {
	d := newTestDelegate(t, "main", "dev")
	pending := d.UpdateMatches("dev")
	cmd := d.Dismissed()
	if cmd == nil {
		t.Fatalf("expected dismissal command")
	}
	if _, ok := cmd().(picker.DismissMsg); !ok {
		t.Fatalf("expected DismissMsg")
	}
	if !d.HandleMsg(pending()) {
		t.Fatalf("expected late result to be claimed")
	}
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main", "dev"}) {
		t.Fatalf("expected late result dropped, got %v", got)
	}
	if d.ctx.Err() == nil {
		t.Fatalf("expected matcher context cancelled")
	}
	if d.Dismissed() != nil {
		t.Fatalf("expected second dismissal to be a no-op")
	}
	if d.UpdateMatches("m") != nil || d.Confirm(false) != nil {
		t.Fatalf("expected operations after dismissal to be no-ops")
	}
}

func TestMatcherFailureKeepsPreviousMatches(t *testing.T) {
	testutil.QuietLogs(t)
	d := newTestDelegate(t, "main", "dev")
	apply(t, d, "dev")
	d.UpdateMatches("ma")
	d.HandleMsg(matchesMsg{epoch: d.epoch, query: "ma", err: errors.New("boom")})
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"dev"}) {
		t.Fatalf("expected previous matches retained, got %v", got)
	}
}

func TestHandleMsgIgnoresForeignMessages(t *testing.T) {
	d := newTestDelegate(t, "main")
	if d.HandleMsg(tea.WindowSizeMsg{}) {
		t.Fatalf("expected foreign message to be ignored")
	}
}

func TestRenderMatch(t *testing.T) {
	repo := &pijul.FakeRepository{Channels: []pijul.Channel{{Name: "main", Current: true}, {Name: "dev"}}}
	d := NewDelegate(context.Background(), repo, DefaultOptions())
	row, ok := d.RenderMatch(0, true)
	if !ok {
		t.Fatalf("expected row for index 0")
	}
	if row.Label != "main" || !row.Selected || row.Hint != "(current)" {
		t.Fatalf("unexpected row %#v", row)
	}
	if _, ok := d.RenderMatch(2, false); ok {
		t.Fatalf("expected out-of-range render to fail")
	}
	if _, ok := d.RenderMatch(-1, false); ok {
		t.Fatalf("expected negative render to fail")
	}

	apply(t, d, "dv")
	row, _ = d.RenderMatch(0, false)
	if row.Label != "dev" || !reflect.DeepEqual(row.Positions, []int{0, 2}) || row.Hint != "" {
		t.Fatalf("unexpected filtered row %#v", row)
	}
}

func TestDelegateOverFailingCLIStartsEmpty(t *testing.T) {
	testutil.QuietLogs(t)
	bin, _ := testutil.WriteFakePijul(t, testutil.FakePijul{ListExit: 1, Stderr: "not a repository"})
	repo := pijul.NewCLIRepository(t.TempDir(), bin)
	d := NewDelegate(context.Background(), repo, DefaultOptions())
	if d.MatchCount() != 0 {
		t.Fatalf("expected no channels, got %v", matchNames(d))
	}
	if cmd := d.UpdateMatches("main"); cmd != nil {
		d.HandleMsg(cmd())
	}
	if d.MatchCount() != 0 || d.SelectedIndex() != 0 {
		t.Fatalf("expected empty state to persist")
	}
}

func TestCaseSensitiveOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Match = fuzzy.Options{CaseSensitive: true}
	repo := &pijul.FakeRepository{Channels: []pijul.Channel{{Name: "Main"}, {Name: "main"}}}
	d := NewDelegate(context.Background(), repo, opts)
	apply(t, d, "main")
	if got := matchNames(d); !reflect.DeepEqual(got, []string{"main"}) {
		t.Fatalf("expected exact-case match only, got %v", got)
	}
}

func TestDelegateInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[a-cé/-]{1,8}`), 0, 15).Draw(t, "names")
		d := newTestDelegate(t, names...)
		var pending []tea.Cmd
		lastIssued := ""
		ops := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				q := rapid.StringMatching(`[a-cé ]{0,3}`).Draw(t, "query")
				lastIssued = q
				if cmd := d.UpdateMatches(q); cmd != nil {
					pending = append(pending, cmd)
				}
			case 1:
				d.SetSelectedIndex(rapid.IntRange(-3, 20).Draw(t, "ix"))
			case 2:
				if len(pending) > 0 {
					j := rapid.IntRange(0, len(pending)-1).Draw(t, "pending")
					d.HandleMsg(pending[j]())
					pending = append(pending[:j], pending[j+1:]...)
				}
			case 3:
				d.Confirm(rapid.Bool().Draw(t, "secondary"))
			case 4:
				d.RenderMatch(rapid.IntRange(-2, 20).Draw(t, "render"), false)
			}
			n, ix := d.MatchCount(), d.SelectedIndex()
			if (n == 0 && ix != 0) || (n > 0 && (ix < 0 || ix >= n)) {
				t.Fatalf("selection %d out of range for %d matches", ix, n)
			}
			for _, e := range d.Matches() {
				runes := []rune(e.Channel.Name)
				for k, p := range e.Positions {
					if p < 0 || p >= len(runes) {
						t.Fatalf("position %d out of range for %q", p, e.Channel.Name)
					}
					if k > 0 && p < e.Positions[k-1] {
						t.Fatalf("positions decrease in %v", e.Positions)
					}
				}
			}
		}
		for _, cmd := range pending {
			d.HandleMsg(cmd())
		}
		want := newTestDelegate(t, names...)
		apply(t, want, lastIssued)
		if got, exp := matchNames(d), matchNames(want); !reflect.DeepEqual(got, exp) {
			t.Fatalf("expected results of latest query %q %v, got %v", lastIssued, exp, got)
		}
	})
}
