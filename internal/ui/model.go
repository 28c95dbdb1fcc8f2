package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/backend"
	"github.com/atomicstack/meshdash/internal/data/dispatcher"
	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/request"
	"github.com/atomicstack/meshdash/internal/state"
	"github.com/atomicstack/meshdash/internal/theme"
	"github.com/atomicstack/meshdash/internal/ui/command"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeForm
)

// TimestampLayout renders the startup time in the header.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// EventSource is the push channel as seen by the model. *backend.Channel
// satisfies it.
type EventSource interface {
	Events() <-chan backend.Event
}

// Options configures a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Channel    EventSource
	Sender     request.Sender
	Fragment   string
	Rows       int
	Actions    []actions.Action
	Now        func() time.Time
}

// Model implements the Bubble Tea model for the dashboard.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	mode        Mode

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	channel   EventSource
	connected bool
	dead      bool

	fragment   string
	panels     *state.Panels
	history    *nav.Stack
	requests   *request.Dispatcher
	navigator  *nav.Navigator
	dispatcher *dispatcher.Dispatcher
	stores     dispatcher.Stores
	catalog    *actions.Catalog
	bus        *command.Bus

	rows       uistate.Viewport
	controller uistate.Viewport
	detail     uistate.Viewport

	nodeQuery    uistate.Query
	logQuery     uistate.Query
	filterTab    nav.Tab
	filterCursor cursor.Model
	// filterCursorDirty restarts the blink after the caret moved.
	filterCursorDirty bool

	form *ActionForm

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the navigation, request and sync layers into a model. No
// request is fired until Init.
func NewModel(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	catalogActions := opts.Actions
	if len(catalogActions) == 0 {
		catalogActions = actions.Defaults()
	}

	panels := state.NewPanels()
	history := nav.NewStack(initialFragment(opts.Fragment))
	requests := request.NewDispatcher(opts.Sender)
	navigator := nav.New(panels, history, requests)
	stores := dispatcher.NewStores(opts.Rows)
	stores.Regions.Set(state.RegionTimestamp, now().UTC().Format(TimestampLayout))

	m := &Model{
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		mode:       ModeBrowse,
		channel:    opts.Channel,
		fragment:   opts.Fragment,
		panels:     panels,
		history:    history,
		requests:   requests,
		navigator:  navigator,
		dispatcher: dispatcher.New(stores, navigator),
		stores:     stores,
		catalog:    actions.NewCatalog(catalogActions),
		bus:        command.New(requests),
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
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// initialFragment is the history entry for the start location, so going back
// to it replays the same transition.
func initialFragment(fragment string) string {
	loc, _ := nav.ParseFragment(fragment)
	if loc.NodeID == "" {
		loc.NodeID = nav.DefaultNode
	}
	return loc.Fragment()
}

// Init applies the start location and starts pulling channel events.
func (m *Model) Init() tea.Cmd {
	if _, err := m.navigator.Load(m.fragment); err != nil {
		m.setInfo("Unknown location " + m.fragment + ": showing controller")
	}
	cmds := []tea.Cmd{}
	if m.channel != nil {
		cmds = append(cmds, waitForChannelEvent(m.channel))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
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
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	handled, cmd := m.handleActiveForm(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled {
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(channelEventMsg{}):   m.handleChannelEventMsg,
		reflect.TypeOf(channelDoneMsg{}):    m.handleChannelDoneMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
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
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Location returns the visible tab and current node.
func (m *Model) Location() nav.Location {
	return m.navigator.Location()
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Stores exposes the synced state for inspection.
func (m *Model) Stores() dispatcher.Stores {
	return m.stores
}

// Dead reports whether the push channel failed or closed.
func (m *Model) Dead() bool {
	return m.dead
}
