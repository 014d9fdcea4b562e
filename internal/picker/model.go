package picker

import (
	"reflect"
	"time"

	"github.com/atomicstack/pijul-channel-picker/internal/picker/state"
	"github.com/atomicstack/pijul-channel-picker/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultName   = "picker"
	defaultFooter = "↑/↓ move  enter select  esc cancel"
	infoLifetime  = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	// Name identifies the picker in trace events.
	Name  string
	Title string
	// Width and Height pin the picker size; zero follows the terminal.
	Width      int
	Height     int
	ShowFooter bool
	Footer     string
	// StaticCursor disables caret blinking.
	StaticCursor bool
}

// Model implements tea.Model for a delegate-driven picker.
type Model struct {
	delegate    Delegate
	name        string
	title       string
	query       state.Query
	viewport    state.Viewport
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	footer      string
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	closed      bool

	queryCursor      cursor.Model
	queryCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// New constructs a Model around delegate.
func New(delegate Delegate, opts Options) *Model {
	m := &Model{
		delegate:   delegate,
		name:       opts.Name,
		title:      opts.Title,
		showFooter: opts.ShowFooter,
		footer:     opts.Footer,
	}
	if m.name == "" {
		m.name = defaultName
	}
	if m.footer == "" {
		m.footer = defaultFooter
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Query != nil {
		c.TextStyle = styles.Query.Copy()
	}
	c.SetChar(" ")
	if opts.StaticCursor {
		c.SetMode(cursor.CursorStatic)
	}
	m.queryCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface. It loads the unfiltered list.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if cmd := m.delegate.UpdateMatches(""); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.syncViewport()
	if cmd := m.queryCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateQueryCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	if m.delegate.HandleMsg(msg) {
		m.syncViewport()
	}
	return m, m.finishUpdate(cmds)
}

// Query returns the current query text.
func (m *Model) Query() string {
	return m.query.Text
}

// Delegate returns the delegate driving the model.
func (m *Model) Delegate() Delegate {
	return m.delegate
}

// Closed reports whether the picker has been dismissed.
func (m *Model) Closed() bool {
	return m.closed
}

// SetError shows msg in the status line until the query changes.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
}

// SetInfo shows msg above the footer for a few seconds.
func (m *Model) SetInfo(msg string) {
	m.infoMsg = msg
	m.infoExpire = time.Now().Add(infoLifetime)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.queryCursorDirty {
		m.queryCursorDirty = false
		m.queryCursor.Blink = false
		if cmd := m.queryCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
