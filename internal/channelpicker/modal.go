package channelpicker

import (
	"context"
	"fmt"

	"github.com/atomicstack/pijul-channel-picker/internal/command"
	"github.com/atomicstack/pijul-channel-picker/internal/picker"
	"github.com/atomicstack/pijul-channel-picker/internal/pijul"
	"github.com/atomicstack/pijul-channel-picker/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultWidth = 34
	switchID     = "channel:switch"
	modalFooter  = "enter pick  alt+enter switch  esc cancel"
)

var styles = theme.Default()

// ModalOptions configures the modal frame around the picker.
type ModalOptions struct {
	// Width is the outer width including the frame; zero uses DefaultWidth.
	Width int
	// Height is the outer height; zero follows the terminal.
	Height       int
	Title        string
	ShowFooter   bool
	StaticCursor bool
}

// Outcome describes how the modal closed.
type Outcome struct {
	Channel   string
	Secondary bool
	Switched  bool
	Dismissed bool
}

// Modal owns a channel picker and turns its signals into program outcomes:
// a primary confirm quits with the channel, a secondary confirm switches to
// it first and a dismissal quits without one.
type Modal struct {
	ctx       context.Context
	repo      pijul.Repository
	bus       *command.Bus
	delegate  *Delegate
	picker    *picker.Model
	width     int
	outcome   Outcome
	switching bool
}

// NewModal wraps delegate in a framed picker. repo performs channel switches.
func NewModal(ctx context.Context, repo pijul.Repository, delegate *Delegate, opts ModalOptions) *Modal {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width
	height := opts.Height
	if styles.Frame != nil {
		inner -= styles.Frame.GetHorizontalFrameSize()
		if height > 0 {
			height -= styles.Frame.GetVerticalFrameSize()
		}
	}
	if inner < 1 {
		inner = 1
	}
	if opts.Height > 0 && height < 1 {
		height = 1
	}
	model := picker.New(delegate, picker.Options{
		Name:         pickerName,
		Title:        opts.Title,
		Width:        inner,
		Height:       height,
		ShowFooter:   opts.ShowFooter,
		Footer:       modalFooter,
		StaticCursor: opts.StaticCursor,
	})
	return &Modal{
		ctx:      ctx,
		repo:     repo,
		bus:      command.New(),
		delegate: delegate,
		picker:   model,
		width:    width,
	}
}

// Init is part of the tea.Model interface.
func (m *Modal) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles picker signals and forwards everything else to the picker.
func (m *Modal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.switching && closesPicker(msg) {
			return m, nil
		}
	case ConfirmedMsg:
		return m, m.handleConfirmed(msg)
	case command.ActionResult:
		return m, m.handleActionResult(msg)
	case picker.DismissMsg:
		m.outcome = Outcome{Dismissed: true}
		return m, tea.Quit
	}
	_, cmd := m.picker.Update(msg)
	return m, cmd
}

func (m *Modal) handleConfirmed(msg ConfirmedMsg) tea.Cmd {
	if m.switching {
		return nil
	}
	name := msg.Entry.Channel.Name
	if !msg.Secondary {
		m.outcome = Outcome{Channel: name}
		return tea.Quit
	}
	m.switching = true
	m.picker.SetError("")
	m.picker.SetInfo(fmt.Sprintf("Switching to %s…", name))
	return m.bus.Execute(m.ctx, command.Request{
		ID:      switchID,
		Label:   name,
		Item:    name,
		Handler: command.Result(switchID, m.switchChannel),
	})
}

// closesPicker reports keys that would confirm or dismiss. They are held back
// while a switch is running so its result always decides the outcome.
func closesPicker(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "alt+enter", "ctrl+o", "esc", "ctrl+c":
		return true
	}
	return false
}

func (m *Modal) switchChannel(ctx context.Context, name string) (string, error) {
	if err := m.repo.SwitchChannel(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

func (m *Modal) handleActionResult(res command.ActionResult) tea.Cmd {
	if res.ID != switchID {
		return nil
	}
	m.switching = false
	if res.Err != nil {
		m.picker.SetInfo("")
		m.picker.SetError(res.Err.Error())
		return nil
	}
	m.outcome = Outcome{Channel: res.Info, Secondary: true, Switched: true}
	return tea.Quit
}

// View renders the picker inside the modal frame.
func (m *Modal) View() string {
	view := m.picker.View()
	if styles.Frame == nil {
		return view
	}
	return styles.Frame.Width(m.width - styles.Frame.GetHorizontalBorderSize()).Render(view)
}

// Outcome reports how the modal closed. It is the zero value while open.
func (m *Modal) Outcome() Outcome {
	return m.outcome
}

// Picker exposes the hosted picker model.
func (m *Modal) Picker() *picker.Model {
	return m.picker
}

// Delegate returns the channel delegate behind the picker.
func (m *Modal) Delegate() *Delegate {
	return m.delegate
}
