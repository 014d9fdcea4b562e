package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/pijul-channel-picker/internal/channelpicker"
	"github.com/atomicstack/pijul-channel-picker/internal/fuzzy"
	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	"github.com/atomicstack/pijul-channel-picker/internal/pijul"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrDismissed is returned when the user closes the picker without choosing.
var ErrDismissed = errors.New("channel selection dismissed")

// Config describes user-provided application options.
type Config struct {
	RepoDir       string
	PijulBin      string
	Width         int
	Height        int
	ShowFooter    bool
	CaseSensitive bool
	SmartCase     bool
	MaxResults    int
	Placeholder   string
	Title         string
}

// Run bootstraps and executes the Bubble Tea program against the pijul CLI.
// The interface is drawn on ui and the chosen channel is written to stdout.
func Run(cfg Config, ui io.Writer) error {
	repo := pijul.NewCLIRepository(cfg.RepoDir, cfg.PijulBin)
	_, err := RunProgram(context.Background(), repo, cfg, os.Stdout, tea.WithAltScreen(), tea.WithOutput(ui))
	return err
}

// RunProgram runs the picker over repo and reports the outcome on out.
func RunProgram(ctx context.Context, repo pijul.Repository, cfg Config, out io.Writer, opts ...tea.ProgramOption) (channelpicker.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	delegate := channelpicker.NewDelegate(ctx, repo, delegateOptions(cfg))
	modal := channelpicker.NewModal(ctx, repo, delegate, channelpicker.ModalOptions{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Title:      cfg.Title,
		ShowFooter: cfg.ShowFooter,
	})
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(modal, opts...)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return channelpicker.Outcome{}, fmt.Errorf("run picker: %w", err)
	}
	return report(modal.Outcome(), out)
}

func delegateOptions(cfg Config) channelpicker.Options {
	return channelpicker.Options{
		Placeholder: cfg.Placeholder,
		Match: fuzzy.Options{
			CaseSensitive: cfg.CaseSensitive,
			SmartCase:     cfg.SmartCase,
			MaxResults:    cfg.MaxResults,
		},
	}
}

func report(outcome channelpicker.Outcome, out io.Writer) (channelpicker.Outcome, error) {
	switch {
	case outcome.Switched:
		events.App.Finish("switched", outcome.Channel)
		if _, err := fmt.Fprintf(out, "Switched to channel %s\n", outcome.Channel); err != nil {
			return outcome, fmt.Errorf("write outcome: %w", err)
		}
	case outcome.Channel != "":
		events.App.Finish("selected", outcome.Channel)
		if _, err := fmt.Fprintln(out, outcome.Channel); err != nil {
			return outcome, fmt.Errorf("write outcome: %w", err)
		}
	default:
		events.App.Finish("dismissed", "")
		return outcome, ErrDismissed
	}
	return outcome, nil
}
