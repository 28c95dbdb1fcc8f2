// Package state holds the interactive state behind each dashboard view:
// scrollable lists, their cursors and the text of their filter inputs.
package state

import "github.com/atomicstack/meshdash/internal/logging/events"

// Item is one list row. Values are keyed by column name.
type Item struct {
	Values map[string]string
}

// Value returns the named column.
func (i Item) Value(column string) string {
	return i.Values[column]
}

// Predicate selects items to display.
type Predicate func(Item) bool

// List is the row container behind the logs, slow and failed views. It keeps
// every added item and displays those passing the predicate that was in
// effect when Filter last ran. Add appends to the display directly; only
// Filter evaluates the predicate.
type List struct {
	Viewport

	ID      string
	Columns []string

	full      []Item
	items     []Item
	predicate Predicate
}

// NewList returns an empty list with the given columns.
func NewList(id string, columns ...string) *List {
	return &List{ID: id, Columns: append([]string(nil), columns...)}
}

// Clear removes every item. An installed predicate stays installed.
func (l *List) Clear() {
	l.full = nil
	l.items = nil
	l.Viewport = Viewport{}
}

// Add appends items and displays them.
func (l *List) Add(items ...Item) {
	l.full = append(l.full, items...)
	l.items = append(l.items, items...)
	l.Clamp(len(l.items))
}

// Filter installs pred and recomputes the displayed items. A nil predicate
// removes filtering.
func (l *List) Filter(pred Predicate) {
	l.predicate = pred
	if pred == nil {
		l.items = cloneItems(l.full)
	} else {
		l.items = make([]Item, 0, len(l.full))
		for _, item := range l.full {
			if pred(item) {
				l.items = append(l.items, item)
			}
		}
	}
	l.Clamp(len(l.items))
	events.Sync.List(l.ID, len(l.items), pred != nil)
}

// Filtered reports whether a predicate is installed.
func (l *List) Filtered() bool {
	return l.predicate != nil
}

// Items returns the displayed items.
func (l *List) Items() []Item {
	return cloneItems(l.items)
}

// All returns every item, displayed or not.
func (l *List) All() []Item {
	return cloneItems(l.full)
}

// Len returns the number of displayed items.
func (l *List) Len() int {
	return len(l.items)
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.items) {
		return Item{}, false
	}
	return l.items[l.Cursor], true
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
