// Package command runs follow-up actions chosen in a picker as Bubble Tea
// commands, tracing each step.
package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Action performs work for item and returns the command producing its result.
// A nil command means there was nothing to do.
type Action func(ctx context.Context, item string) tea.Cmd

// ActionResult communicates the outcome of an action.
type ActionResult struct {
	ID   string
	Info string
	Err  error
}

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler Action
	Item    string
}

// Bus coordinates the execution of actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(ctx context.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		cmd := req.Handler(ctx, req.Item)
		if cmd == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		if res, ok := msg.(ActionResult); ok {
			if res.Err != nil {
				events.Action.Error(res.Err)
			} else {
				events.Action.Success(res.Info)
			}
		}
		return msg
	}
}

// Result builds an Action from a plain function. The returned command reports
// fn's outcome as an ActionResult tagged with id.
func Result(id string, fn func(ctx context.Context, item string) (string, error)) Action {
	return func(ctx context.Context, item string) tea.Cmd {
		return func() tea.Msg {
			info, err := fn(ctx, item)
			return ActionResult{ID: id, Info: info, Err: err}
		}
	}
}
