package state

import (
	"reflect"
	"strings"
	"testing"
)

func logItems(messages ...string) []Item {
	items := make([]Item, len(messages))
	for i, m := range messages {
		items[i] = Item{Values: map[string]string{"m": m}}
	}
	return items
}

func messages(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Value("m")
	}
	return out
}

func TestListFilterRecomputesDisplay(t *testing.T) {
	l := NewList("driverlog", "t", "c", "d", "m")
	l.Add(logItems("SEND ping", "ACK", "SEND data")...)
	l.Filter(func(item Item) bool { return strings.HasPrefix(item.Value("m"), "SEND") })

	if got := messages(l.Items()); !reflect.DeepEqual(got, []string{"SEND ping", "SEND data"}) {
		t.Fatalf("unexpected filtered items %v", got)
	}
	if !l.Filtered() || len(l.All()) != 3 {
		t.Fatalf("expected predicate installed over three items")
	}

	l.Filter(nil)
	if l.Filtered() || l.Len() != 3 {
		t.Fatalf("expected filter removed, got %d items", l.Len())
	}
}

func TestListAddDoesNotEvaluatePredicate(t *testing.T) {
	l := NewList("driverslow", "d", "t", "m")
	l.Add(logItems("keep", "drop")...)
	l.Filter(func(item Item) bool { return item.Value("m") == "keep" })

	l.Clear()
	l.Add(logItems("drop", "also drop")...)
	if !l.Filtered() {
		t.Fatalf("expected predicate to survive clear")
	}
	if got := messages(l.Items()); !reflect.DeepEqual(got, []string{"drop", "also drop"}) {
		t.Fatalf("expected added items displayed unfiltered, got %v", got)
	}
}

func TestListCurrentFollowsCursor(t *testing.T) {
	l := NewList("x", "m")
	if _, ok := l.Current(); ok {
		t.Fatalf("expected no current item on empty list")
	}
	l.Add(logItems("a", "b", "c")...)
	l.End(l.Len())
	if item, ok := l.Current(); !ok || item.Value("m") != "c" {
		t.Fatalf("expected last item, got %#v", item)
	}
	l.Filter(func(item Item) bool { return item.Value("m") == "a" })
	if item, ok := l.Current(); !ok || item.Value("m") != "a" {
		t.Fatalf("expected cursor clamped onto remaining item, got %#v", item)
	}
}

func TestViewportPaging(t *testing.T) {
	var v Viewport
	if !v.PageDown(5, 2) || v.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", v.Cursor)
	}
	if !v.PageDown(5, 2) || v.Cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", v.Cursor)
	}
	if v.PageDown(5, 2) {
		t.Fatalf("expected no movement past end")
	}
	if !v.PageUp(5, 10) || v.Cursor != 0 {
		t.Fatalf("expected cursor back at start, got %d", v.Cursor)
	}
	if v.Home(0) || v.End(0) {
		t.Fatalf("expected no movement on empty list")
	}
}

func TestViewportEnsureVisible(t *testing.T) {
	v := Viewport{Cursor: 4}
	v.EnsureVisible(5, 2)
	if v.Offset != 3 {
		t.Fatalf("expected offset 3, got %d", v.Offset)
	}
	v.Cursor = -1
	v.EnsureVisible(5, 2)
	if v.Cursor != 0 || v.Offset != 0 {
		t.Fatalf("expected cursor and offset at 0, got %d/%d", v.Cursor, v.Offset)
	}
	v = Viewport{Cursor: 1, Offset: 4}
	v.EnsureVisible(5, 3)
	if v.Offset != 1 {
		t.Fatalf("expected offset aligned with cursor, got %d", v.Offset)
	}
	v.EnsureVisible(5, 0)
	if v.Offset != 0 {
		t.Fatalf("expected offset reset when maxVisible <= 0, got %d", v.Offset)
	}
}
