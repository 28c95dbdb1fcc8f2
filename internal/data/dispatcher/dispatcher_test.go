package dispatcher

import (
	"reflect"
	"testing"

	"github.com/atomicstack/meshdash/internal/protocol"
	"github.com/atomicstack/meshdash/internal/state"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
)

type fixedSelection string

func (s fixedSelection) CurrentNode() string { return string(s) }

func newDispatcher(selected string) (*Dispatcher, Stores) {
	stores := NewStores(8)
	return New(stores, fixedSelection(selected)), stores
}

func logsMessage(messages ...string) protocol.Logs {
	entries := make([]protocol.LogEntry, len(messages))
	for i, m := range messages {
		entries[i] = protocol.LogEntry{Time: "t", Message: m}
	}
	return protocol.Logs{Entries: entries}
}

func listMessages(l *uistate.List) []string {
	var out []string
	for _, item := range l.Items() {
		out = append(out, item.Value("m"))
	}
	return out
}

func TestHandleOverwritesRegionsVerbatim(t *testing.T) {
	d, stores := newDispatcher("0")
	res := d.Handle(protocol.Action{HTML: "<i>adding</i>"})
	if !res.ActivityUpdated || stores.Regions.Get(state.RegionActivity) != "<i>adding</i>" {
		t.Fatalf("expected activity region updated, got %#v", res)
	}
	d.Handle(protocol.Status{HTML: "ok"})
	d.Handle(protocol.Driver{HTML: "<pre>drv</pre>"})
	if stores.Regions.Get(state.RegionStatus) != "ok" || stores.Regions.Get(state.RegionDriver) != "<pre>drv</pre>" {
		t.Fatalf("unexpected status/driver regions")
	}
	res = d.Handle(protocol.Controller{Info: protocol.ControllerInfo{Basics: "b", Routes: "r", APIs: "a"}})
	if !res.ControllerUpdated ||
		stores.Regions.Get(state.RegionControllerBasics) != "b" ||
		stores.Regions.Get(state.RegionControllerRoutes) != "r" ||
		stores.Regions.Get(state.RegionControllerAPIs) != "a" {
		t.Fatalf("unexpected controller regions")
	}
}

func TestHandleEventPushesHistory(t *testing.T) {
	d, stores := newDispatcher("0")
	for _, e := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		d.Handle(protocol.Event{Text: e})
	}
	want := []string{"b", "c", "d", "e", "f", "g"}
	if !reflect.DeepEqual(stores.History.Entries(), want) {
		t.Fatalf("expected %v, got %v", want, stores.History.Entries())
	}
}

func TestLogsPushReappliesFilter(t *testing.T) {
	d, stores := newDispatcher("0")
	if err := d.SetLogFilter("^SEND"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	res := d.Handle(logsMessage("SEND a", "ACK", "SEND b"))
	if !res.LogsUpdated {
		t.Fatalf("expected logs updated")
	}
	if got := listMessages(stores.Logs); !reflect.DeepEqual(got, []string{"SEND a", "SEND b"}) {
		t.Fatalf("expected only matching entries, got %v", got)
	}
	if len(stores.Logs.All()) != 3 {
		t.Fatalf("expected the full set retained, got %d", len(stores.Logs.All()))
	}
}

func TestLogsPushReplacesWholeCollection(t *testing.T) {
	d, stores := newDispatcher("0")
	d.Handle(logsMessage("one", "two", "three"))
	d.Handle(logsMessage("four"))
	if got := listMessages(stores.Logs); !reflect.DeepEqual(got, []string{"four"}) {
		t.Fatalf("expected replacement, got %v", got)
	}
}

func TestSlowAndFailedPushesDoNotReapplyFilter(t *testing.T) {
	d, stores := newDispatcher("0")
	onlyKeep := func(item uistate.Item) bool { return item.Value("m") == "keep" }
	for _, list := range []*uistate.List{stores.Slow, stores.Failed} {
		list.Filter(onlyKeep)
	}

	res := d.Handle(protocol.Slow{Entries: []protocol.HistoryEntry{{Message: "keep"}, {Message: "other"}}})
	if !res.SlowUpdated {
		t.Fatalf("expected slow updated")
	}
	if got := listMessages(stores.Slow); !reflect.DeepEqual(got, []string{"keep", "other"}) {
		t.Fatalf("expected unfiltered slow entries, got %v", got)
	}

	d.Handle(protocol.Failed{Entries: []protocol.HistoryEntry{{Message: "other"}}})
	if got := listMessages(stores.Failed); !reflect.DeepEqual(got, []string{"other"}) {
		t.Fatalf("expected unfiltered failed entries, got %v", got)
	}
	if !stores.Slow.Filtered() || !stores.Failed.Filtered() {
		t.Fatalf("expected the predicates to stay installed")
	}
}

func TestSetLogFilterInvalidKeepsPrevious(t *testing.T) {
	d, stores := newDispatcher("0")
	d.Handle(logsMessage("alpha", "beta"))
	if err := d.SetLogFilter("alp"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := d.SetLogFilter("("); err == nil {
		t.Fatalf("expected compile error")
	}
	if d.LogFilter() != "alp" {
		t.Fatalf("expected previous filter kept, got %q", d.LogFilter())
	}
	if got := listMessages(stores.Logs); !reflect.DeepEqual(got, []string{"alpha"}) {
		t.Fatalf("expected previous filter still applied, got %v", got)
	}
	if err := d.SetLogFilter(""); err != nil {
		t.Fatalf("unexpected error clearing filter: %v", err)
	}
	if stores.Logs.Len() != 2 || stores.Logs.Filtered() {
		t.Fatalf("expected filter removed")
	}
}

func TestAllNodesAndOneNodeDelegation(t *testing.T) {
	d, stores := newDispatcher("Y")
	res := d.Handle(protocol.AllNodes{Nodes: []protocol.NodeSnapshot{{No: "X", Name: "x"}, {No: "Y", Name: "y"}}})
	if !res.RowsUpdated || stores.Rows.Len() != 2 {
		t.Fatalf("expected two rows, got %d", stores.Rows.Len())
	}

	res = d.Handle(protocol.OneNode{NodeID: "X", Detail: protocol.NodeDetail{
		NodeSnapshot: protocol.NodeSnapshot{No: "X", Name: "x-new"},
		Basics:       "x-basics",
	}})
	if res.DetailUpdated {
		t.Fatalf("expected detail for X ignored while Y is selected")
	}
	if !res.RowPatched {
		t.Fatalf("expected row for X patched")
	}
	if _, populated := stores.Detail.Detail(); populated {
		t.Fatalf("expected detail panel untouched")
	}
	slot, _ := stores.Rows.Slot(0)
	if slot.Name != "x-new" {
		t.Fatalf("expected row name x-new, got %q", slot.Name)
	}

	res = d.Handle(protocol.OneNode{NodeID: "Y", Detail: protocol.NodeDetail{Basics: "y-basics"}})
	if !res.DetailUpdated {
		t.Fatalf("expected detail for selected node applied")
	}
	if detail, _ := stores.Detail.Detail(); detail.Basics != "y-basics" {
		t.Fatalf("unexpected detail %#v", detail)
	}
}
