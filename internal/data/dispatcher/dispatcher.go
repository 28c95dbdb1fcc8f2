// Package dispatcher routes decoded push messages to the stores they update.
package dispatcher

import (
	"fmt"
	"regexp"

	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/protocol"
	"github.com/atomicstack/meshdash/internal/state"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
)

// Column names of the list widgets, as sent by the server.
var (
	LogColumns     = []string{"t", "c", "d", "m"}
	HistoryColumns = []string{"d", "t", "m"}
)

// Result reports which stores a message changed.
type Result struct {
	ActivityUpdated   bool
	StatusUpdated     bool
	DriverUpdated     bool
	HistoryUpdated    bool
	ControllerUpdated bool
	LogsUpdated       bool
	SlowUpdated       bool
	FailedUpdated     bool
	RowsUpdated       bool
	DetailUpdated     bool
	RowPatched        bool
}

// Selection reports the node the one-node view shows.
type Selection interface {
	CurrentNode() string
}

// Stores bundles everything a push can touch.
type Stores struct {
	Regions state.RegionStore
	History *state.EventHistory
	Logs    *uistate.List
	Slow    *uistate.List
	Failed  *uistate.List
	Rows    *state.RowPool
	Detail  *state.DetailPanel
}

// NewStores allocates empty stores with a row pool of the given capacity.
func NewStores(rows int) Stores {
	return Stores{
		Regions: state.NewRegionStore(),
		History: state.NewEventHistory(),
		Logs:    uistate.NewList("driverlog", LogColumns...),
		Slow:    uistate.NewList("driverslow", HistoryColumns...),
		Failed:  uistate.NewList("driverfailed", HistoryColumns...),
		Rows:    state.NewRowPool(rows),
		Detail:  state.NewDetailPanel(),
	}
}

type Dispatcher struct {
	stores    Stores
	selection Selection

	logPattern string
	logFilter  *regexp.Regexp
}

func New(stores Stores, selection Selection) *Dispatcher {
	return &Dispatcher{stores: stores, selection: selection}
}

// Stores returns the stores the dispatcher writes to.
func (d *Dispatcher) Stores() Stores {
	return d.stores
}

// Handle applies msg. Every message kind has exactly one handler.
func (d *Dispatcher) Handle(msg protocol.Message) Result {
	var res Result
	switch m := msg.(type) {
	case protocol.Action:
		d.stores.Regions.Set(state.RegionActivity, m.HTML)
		res.ActivityUpdated = true
	case protocol.Status:
		d.stores.Regions.Set(state.RegionStatus, m.HTML)
		res.StatusUpdated = true
	case protocol.Driver:
		d.stores.Regions.Set(state.RegionDriver, m.HTML)
		res.DriverUpdated = true
	case protocol.Event:
		d.stores.History.Push(m.Text)
		res.HistoryUpdated = true
	case protocol.Controller:
		d.stores.Regions.Set(state.RegionControllerBasics, m.Info.Basics)
		d.stores.Regions.Set(state.RegionControllerRoutes, m.Info.Routes)
		d.stores.Regions.Set(state.RegionControllerAPIs, m.Info.APIs)
		res.ControllerUpdated = true
	case protocol.Logs:
		d.stores.Logs.Clear()
		d.stores.Logs.Add(logItems(m.Entries)...)
		d.InstallLogFilter()
		res.LogsUpdated = true
	case protocol.Slow:
		// The installed predicate is deliberately not re-run here.
		d.stores.Slow.Clear()
		d.stores.Slow.Add(historyItems(m.Entries)...)
		res.SlowUpdated = true
	case protocol.Failed:
		d.stores.Failed.Clear()
		d.stores.Failed.Add(historyItems(m.Entries)...)
		res.FailedUpdated = true
	case protocol.AllNodes:
		d.stores.Rows.Apply(m.Nodes)
		res.RowsUpdated = true
	case protocol.OneNode:
		res.DetailUpdated, res.RowPatched = state.ApplyNodeUpdate(
			d.stores.Detail, d.stores.Rows, d.currentNode(), m.NodeID, m.Detail)
	}
	return res
}

func (d *Dispatcher) currentNode() string {
	if d.selection == nil {
		return ""
	}
	return d.selection.CurrentNode()
}

// SetLogFilter compiles pattern and applies it to the log list. An empty
// pattern removes the filter. On a compile error the previous filter stays.
func (d *Dispatcher) SetLogFilter(pattern string) error {
	if pattern == "" {
		d.logPattern = ""
		d.logFilter = nil
		d.InstallLogFilter()
		events.Filter.Cleared(d.stores.Logs.ID)
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// A bad pattern is reported to the caller and the previous filter
		// stays installed instead of failing the whole interaction.
		events.Filter.Invalid(d.stores.Logs.ID, pattern, err)
		return fmt.Errorf("log filter %q: %w", pattern, err)
	}
	d.logPattern = pattern
	d.logFilter = re
	d.InstallLogFilter()
	events.Filter.Changed(d.stores.Logs.ID, pattern)
	return nil
}

// LogFilter returns the installed log pattern.
func (d *Dispatcher) LogFilter() string {
	return d.logPattern
}

// InstallLogFilter clears the log list's filter and, when a pattern is set,
// shows only entries whose message matches it.
func (d *Dispatcher) InstallLogFilter() {
	d.stores.Logs.Filter(nil)
	if d.logFilter == nil {
		return
	}
	re := d.logFilter
	d.stores.Logs.Filter(func(item uistate.Item) bool {
		return re.MatchString(item.Value("m"))
	})
}

func logItems(entries []protocol.LogEntry) []uistate.Item {
	items := make([]uistate.Item, len(entries))
	for i, e := range entries {
		items[i] = uistate.Item{Values: map[string]string{
			"t": e.Time,
			"c": e.Comment,
			"d": e.Direction,
			"m": e.Message,
		}}
	}
	return items
}

func historyItems(entries []protocol.HistoryEntry) []uistate.Item {
	items := make([]uistate.Item, len(entries))
	for i, e := range entries {
		items[i] = uistate.Item{Values: map[string]string{
			"d": e.Duration,
			"t": e.Time,
			"m": e.Message,
		}}
	}
	return items
}
