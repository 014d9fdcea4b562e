package state

import "testing"

func TestQueryInsertAndDelete(t *testing.T) {
	var q Query

	if !q.Insert("ab") {
		t.Fatal("expected insert to succeed")
	}
	if q.Text != "ab" || q.Cursor != 2 {
		t.Fatalf("unexpected query state %q/%d", q.Text, q.Cursor)
	}

	q.Cursor = 1
	if !q.Insert("z") {
		t.Fatal("expected insert in middle to succeed")
	}
	if q.Text != "azb" || q.Cursor != 2 {
		t.Fatalf("expected insert into middle, got %q/%d", q.Text, q.Cursor)
	}

	if !q.DeleteRuneBackward() {
		t.Fatal("expected rune deletion to succeed")
	}
	if q.Text != "ab" || q.Cursor != 1 {
		t.Fatalf("unexpected state after delete %q/%d", q.Text, q.Cursor)
	}

	q.Set("feature fix", len("feature fix"))
	if !q.DeleteWordBackward() {
		t.Fatal("expected word deletion to succeed")
	}
	if q.Text != "feature " || q.Cursor != len("feature ") {
		t.Fatalf("expected trailing word removed, got %q/%d", q.Text, q.Cursor)
	}

	if q.Insert("") {
		t.Fatal("expected empty insert to be ignored")
	}
}

func TestQueryDeleteAtStartIsNoop(t *testing.T) {
	q := Query{Text: "main", Cursor: 0}
	if q.DeleteRuneBackward() {
		t.Fatal("expected no rune deletion at start")
	}
	if q.DeleteWordBackward() {
		t.Fatal("expected no word deletion at start")
	}
	if q.Text != "main" {
		t.Fatalf("expected text untouched, got %q", q.Text)
	}
}

func TestQueryDeleteKeepsTailIntact(t *testing.T) {
	q := Query{Text: "abc def", Cursor: 3}
	if !q.DeleteWordBackward() {
		t.Fatal("expected deletion")
	}
	if q.Text != " def" || q.Cursor != 0 {
		t.Fatalf("expected head word removed, got %q/%d", q.Text, q.Cursor)
	}
}

func TestQueryUnicodeCursor(t *testing.T) {
	var q Query
	q.Insert("café")
	if q.Cursor != 4 {
		t.Fatalf("expected rune cursor 4, got %d", q.Cursor)
	}
	q.DeleteRuneBackward()
	if q.Text != "caf" {
		t.Fatalf("expected accented rune removed, got %q", q.Text)
	}
}

func TestQueryCursorMovement(t *testing.T) {
	q := Query{Text: "one two three", Cursor: len("one two three")}

	if !q.MoveWordBackward() || q.Cursor != len("one two ") {
		t.Fatalf("expected word back to 8, got %d", q.Cursor)
	}
	if !q.MoveWordBackward() || q.Cursor != len("one ") {
		t.Fatalf("expected word back to 4, got %d", q.Cursor)
	}
	if !q.MoveWordForward() || q.Cursor != len("one two ") {
		t.Fatalf("expected word forward to 8, got %d", q.Cursor)
	}
	if !q.MoveRuneBackward() || q.Cursor != 7 {
		t.Fatalf("expected rune back to 7, got %d", q.Cursor)
	}
	if !q.MoveRuneForward() || q.Cursor != 8 {
		t.Fatalf("expected rune forward to 8, got %d", q.Cursor)
	}
	if !q.MoveStart() || q.Cursor != 0 {
		t.Fatalf("expected start, got %d", q.Cursor)
	}
	if q.MoveStart() {
		t.Fatal("expected no movement when already at start")
	}
	if q.MoveRuneBackward() {
		t.Fatal("expected no rune movement at start")
	}
	if !q.MoveEnd() || q.Cursor != len("one two three") {
		t.Fatalf("expected end, got %d", q.Cursor)
	}
	if q.MoveEnd() || q.MoveRuneForward() || q.MoveWordForward() {
		t.Fatal("expected no movement past end")
	}
}

func TestQuerySetClampsCursor(t *testing.T) {
	var q Query
	q.Set("abc", 10)
	if q.Cursor != 3 {
		t.Fatalf("expected cursor clamped to 3, got %d", q.Cursor)
	}
	q.Set("abc", -4)
	if q.Cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", q.Cursor)
	}
	q.Cursor = 99
	if q.CursorPos() != 3 {
		t.Fatalf("expected CursorPos clamped, got %d", q.CursorPos())
	}
}

func TestQueryClearAndTrimmed(t *testing.T) {
	q := Query{Text: "  main ", Cursor: 3}
	if q.Trimmed() != "main" {
		t.Fatalf("expected trimmed query, got %q", q.Trimmed())
	}
	if !q.Clear() {
		t.Fatal("expected clear to report change")
	}
	if q.Text != "" || q.Cursor != 0 {
		t.Fatalf("expected empty query, got %q/%d", q.Text, q.Cursor)
	}
	if q.Clear() {
		t.Fatal("expected second clear to be a no-op")
	}
}
