package picker

import tea "github.com/charmbracelet/bubbletea"

// Harness drives a Bubble Tea model synchronously for tests. Commands are run
// inline; batches are expanded in order and a tea.QuitMsg marks the harness as
// quit instead of being delivered.
type Harness struct {
	model tea.Model
	quit  bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model tea.Model) *Harness {
	return &Harness{model: model}
}

// Init runs the model's Init command.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.deliver(msg)
}

// Type sends each rune of text as its own key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		if r == ' ' {
			h.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}})
			continue
		}
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Press sends a key press of the given type.
func (h *Harness) Press(key tea.KeyType) {
	h.Send(tea.KeyMsg{Type: key})
}

// Update delivers msg and returns the resulting command without running it.
func (h *Harness) Update(msg tea.Msg) tea.Cmd {
	if h.model == nil {
		return nil
	}
	mdl, cmd := h.model.Update(msg)
	h.model = mdl
	return cmd
}

// Run executes cmd as if Bubble Tea had scheduled it.
func (h *Harness) Run(cmd tea.Cmd) {
	h.processCmd(cmd)
}

func (h *Harness) deliver(msg tea.Msg) {
	h.processCmd(h.Update(msg))
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.QuitMsg:
		h.quit = true
	case tea.BatchMsg:
		for _, sub := range msg {
			h.processCmd(sub)
		}
	default:
		h.deliver(msg)
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() tea.Model {
	return h.model
}

// Quit reports whether a command asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}
