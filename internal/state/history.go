package state

import "strings"

// EventHistorySize is the number of events kept for display.
const EventHistorySize = 6

// EventHistory keeps the most recent events, oldest first. It always holds
// exactly EventHistorySize entries; unused ones are empty.
type EventHistory struct {
	entries [EventHistorySize]string
}

func NewEventHistory() *EventHistory {
	return &EventHistory{}
}

// Push appends event and discards the oldest entry.
func (h *EventHistory) Push(event string) {
	copy(h.entries[:], h.entries[1:])
	h.entries[EventHistorySize-1] = event
}

// Entries returns the window in push order.
func (h *EventHistory) Entries() []string {
	out := make([]string, EventHistorySize)
	copy(out, h.entries[:])
	return out
}

// Text joins the window with newlines.
func (h *EventHistory) Text() string {
	return strings.Join(h.entries[:], "\n")
}
