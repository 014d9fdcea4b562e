// Package picker hosts a generic fuzzy picker on top of Bubble Tea. Model owns
// everything the user sees (query, caret, viewport, status lines) and defers
// matching, selection and confirmation to a Delegate.
//
// Message flow:
//   - Key presses edit the query (input.go) or move the selection
//     (navigation.go). Every query change calls Delegate.UpdateMatches and
//     returns the resulting command to Bubble Tea.
//   - Messages the Model has no handler for are offered to
//     Delegate.HandleMsg, which is how asynchronous match results come back.
//   - enter, alt+enter and esc map to Confirm(false), Confirm(true) and
//     Dismissed. The commands those return carry the outcome upward; the
//     Model itself never quits the program.
//
// Query and viewport bookkeeping lives in internal/picker/state so it can be
// tested without a terminal.
package picker
