package ui

import (
	"errors"
	"testing"

	"github.com/atomicstack/meshdash/internal/backend"
	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/protocol"
	"github.com/atomicstack/meshdash/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

func windowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

func message(msg protocol.Message) backend.Event {
	return backend.Event{Kind: backend.KindMessage, Tag: string(msg.Tag()), Msg: msg}
}

func TestChannelEventsApplyInArrivalOrder(t *testing.T) {
	src := newFakeSource(
		backend.Event{Kind: backend.KindConnected},
		message(protocol.Status{HTML: "<b>first</b>"}),
		message(protocol.AllNodes{Nodes: []protocol.NodeSnapshot{{No: "17", Name: "plug"}, {No: "3", Name: "door"}}}),
		message(protocol.Status{HTML: "second"}),
		message(protocol.OneNode{NodeID: "17", Detail: protocol.NodeDetail{NodeSnapshot: protocol.NodeSnapshot{Name: "porch plug"}}}),
	)
	sender := &recordingSender{}
	h := NewHarness(NewModel(Options{Sender: sender, Channel: src, Fragment: "#tab-one-node/17"}))
	h.Init()

	m := h.Model()
	if !m.connected {
		t.Fatalf("expected connected after KindConnected")
	}
	if got := m.Stores().Regions.Get(state.RegionStatus); got != "second" {
		t.Fatalf("expected last status to win, got %q", got)
	}
	if n := m.Stores().Rows.Len(); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	slot, _ := m.Stores().Rows.Slot(0)
	if slot.Name != "porch plug" {
		t.Fatalf("expected row patched by ONE_NODE, got %q", slot.Name)
	}
	detail, ok := m.Stores().Detail.Detail()
	if !ok || detail.Name != "porch plug" {
		t.Fatalf("expected detail for current node, got %#v", detail)
	}
	if m.channel != nil {
		t.Fatalf("expected channel released after close")
	}
}

func TestClosedChannelIgnoresLaterFrames(t *testing.T) {
	src := newFakeSource(
		backend.Event{Kind: backend.KindConnected},
		backend.Event{Kind: backend.KindClosed, Err: errors.New("eof")},
	)
	sender := &recordingSender{}
	h := NewHarness(NewModel(Options{Sender: sender, Channel: src}))
	h.Init()

	m := h.Model()
	if !m.Dead() {
		t.Fatalf("expected dead model after close")
	}
	if got := m.Stores().Regions.Get(state.RegionStatus); got != StatusConnectionLost {
		t.Fatalf("expected connection lost status, got %q", got)
	}

	push(h, protocol.AllNodes{Nodes: []protocol.NodeSnapshot{{No: "1"}}})
	push(h, protocol.Status{HTML: "late"})
	if n := m.Stores().Rows.Len(); n != 0 {
		t.Fatalf("expected late ALL_NODES to be ignored, got %d rows", n)
	}
	if got := m.Stores().Regions.Get(state.RegionStatus); got != StatusConnectionLost {
		t.Fatalf("expected status to stay, got %q", got)
	}

	before := len(sender.paths)
	h.SendKeys("2")
	if m.Location().Tab != nav.TabAllNodes {
		t.Fatalf("expected navigation to keep working, got %s", m.Location().Tab)
	}
	if got := sender.last(2); len(sender.paths) != before+2 || !equalPaths(got, []string{"/display/ALL_NODES", "/display/DRIVER"}) {
		t.Fatalf("expected requests to keep firing, got %v", sender.paths)
	}
}

func TestFailedDialShowsConnectFailure(t *testing.T) {
	src := newFakeSource(backend.Event{Kind: backend.KindFailed, Err: errors.New("refused")})
	h := NewHarness(NewModel(Options{Channel: src}))
	h.Init()
	if got := h.Model().Stores().Regions.Get(state.RegionStatus); got != StatusConnectFailed {
		t.Fatalf("expected connect failure status, got %q", got)
	}
	if !h.Model().Dead() {
		t.Fatalf("expected dead model after failed dial")
	}
}

func TestDroppedFrameKeepsChannelOpen(t *testing.T) {
	src := newFakeSource(
		backend.Event{Kind: backend.KindConnected},
		backend.Event{Kind: backend.KindDropped, Tag: "WHATEVER", Err: protocol.ErrUnknownTag},
		message(protocol.Event{Text: "node 3 awake"}),
	)
	h := NewHarness(NewModel(Options{Channel: src}))
	h.Init()
	m := h.Model()
	if m.Dead() {
		t.Fatalf("expected dropped frame not to kill the channel")
	}
	entries := m.Stores().History.Entries()
	if entries[len(entries)-1] != "node 3 awake" {
		t.Fatalf("expected event after drop to apply, got %v", entries)
	}
}

func backendClosed() backend.Event {
	return backend.Event{Kind: backend.KindClosed, Err: errors.New("eof")}
}

func TestConnectedRerequestsStartLocation(t *testing.T) {
	src := newFakeSource(backend.Event{Kind: backend.KindConnected})
	sender := &recordingSender{}
	h := NewHarness(NewModel(Options{Sender: sender, Channel: src, Fragment: "#tab-one-node/17"}))
	h.Init()

	want := []string{
		"/display/ONE_NODE/17", "/display/DRIVER",
		"/display/ONE_NODE/17", "/display/DRIVER",
	}
	if !equalPaths(sender.paths, want) {
		t.Fatalf("expected view requested again once connected, got %v", sender.paths)
	}
	m := h.Model()
	if got := m.history.Len(); got != 1 {
		t.Fatalf("expected reconnect not to push history, got %d entries", got)
	}
	if loc := m.Location(); loc.Tab != nav.TabOneNode || loc.NodeID != "17" {
		t.Fatalf("expected location kept, got %#v", loc)
	}
}
