package ui

import (
	"testing"

	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/protocol"
)

func TestTabKeySelectsAndPushesHistory(t *testing.T) {
	h, sender := newTestHarness(t, "")
	h.SendKeys("4")

	m := h.Model()
	if m.Location().Tab != nav.TabLogs {
		t.Fatalf("expected logs tab, got %s", m.Location().Tab)
	}
	if got := sender.last(2); !equalPaths(got, []string{"/display/LOGS", "/display/DRIVER"}) {
		t.Fatalf("expected logs refresh, got %v", got)
	}
	if m.history.Len() != 2 {
		t.Fatalf("expected 2 history entries, got %d", m.history.Len())
	}
	if !m.panels.Shown(nav.TabLogs) || m.panels.Shown(nav.TabController) {
		t.Fatalf("expected only the logs panel shown, got %v", m.panels.Active())
	}
}

func TestHistoryBackAndForwardDoNotPush(t *testing.T) {
	h, sender := newTestHarness(t, "")
	h.SendKeys("4", "[")

	m := h.Model()
	if m.Location().Tab != nav.TabController {
		t.Fatalf("expected back to controller, got %s", m.Location().Tab)
	}
	if got := sender.last(2); !equalPaths(got, []string{"/display/CONTROLLER", "/display/DRIVER"}) {
		t.Fatalf("expected controller refresh on back, got %v", got)
	}

	h.SendKeys("]")
	if m.Location().Tab != nav.TabLogs {
		t.Fatalf("expected forward to logs, got %s", m.Location().Tab)
	}
	if m.history.Len() != 2 {
		t.Fatalf("expected pops not to push, got %d entries", m.history.Len())
	}

	before := len(sender.paths)
	h.SendKeys("]")
	if len(sender.paths) != before {
		t.Fatalf("expected no request past the newest entry, got %v", sender.paths[before:])
	}
	if info := m.currentInfo(); info != "No later location" {
		t.Fatalf("expected no later location info, got %q", info)
	}
}

func TestEnterOpensRowNodeAndNodeIsRemembered(t *testing.T) {
	h, sender := newTestHarness(t, "")
	h.SendKeys("2")
	push(h, protocol.AllNodes{Nodes: []protocol.NodeSnapshot{{No: "3", Name: "door"}, {No: "9", Name: "lamp"}}})
	h.SendKeys("down", "enter")

	m := h.Model()
	if loc := m.Location(); loc.Tab != nav.TabOneNode || loc.NodeID != "9" {
		t.Fatalf("expected one-node 9, got %#v", loc)
	}
	if got := sender.last(2); !equalPaths(got, []string{"/display/ONE_NODE/9", "/display/DRIVER"}) {
		t.Fatalf("expected node 9 refresh, got %v", got)
	}
	if m.history.Current() != "#tab-one-node/9" {
		t.Fatalf("expected node fragment in history, got %q", m.history.Current())
	}

	h.SendKeys("1", "3")
	if loc := m.Location(); loc.Tab != nav.TabOneNode || loc.NodeID != "9" {
		t.Fatalf("expected node 9 to be remembered, got %#v", loc)
	}
	if got := sender.last(2); !equalPaths(got, []string{"/display/ONE_NODE/9", "/display/DRIVER"}) {
		t.Fatalf("expected node 9 refresh after tab switch, got %v", got)
	}
}

func TestEnterOutsideAllNodesDoesNothing(t *testing.T) {
	h, sender := newTestHarness(t, "")
	before := len(sender.paths)
	h.SendKeys("enter")
	if len(sender.paths) != before {
		t.Fatalf("expected no request, got %v", sender.paths[before:])
	}
}

func TestTabCycling(t *testing.T) {
	h, _ := newTestHarness(t, "#tab-failed")
	h.SendKeys("tab")
	if tab := h.Model().Location().Tab; tab != nav.TabController {
		t.Fatalf("expected wrap to controller, got %s", tab)
	}
	h.SendKeys("shift+tab", "shift+tab")
	if tab := h.Model().Location().Tab; tab != nav.TabSlow {
		t.Fatalf("expected slow tab, got %s", tab)
	}
}

func TestCursorMovesOverLogEntries(t *testing.T) {
	h, _ := newTestHarness(t, "#tab-logs")
	push(h, protocol.Logs{Entries: []protocol.LogEntry{{Message: "a"}, {Message: "b"}, {Message: "c"}}})
	h.SendKeys("down", "down", "down")
	if got := h.Model().Stores().Logs.Viewport.Cursor; got != 2 {
		t.Fatalf("expected cursor clamped at 2, got %d", got)
	}
	h.SendKeys("up")
	if got := h.Model().Stores().Logs.Viewport.Cursor; got != 1 {
		t.Fatalf("expected cursor 1, got %d", got)
	}
}
