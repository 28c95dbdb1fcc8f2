package nav

import "github.com/atomicstack/meshdash/internal/logging/events"

// Stack is an in-memory back/forward history of fragments. Pushing after
// going back discards the forward entries.
type Stack struct {
	entries []string
	pos     int
}

// NewStack returns a history whose only entry is initial.
func NewStack(initial string) *Stack {
	return &Stack{entries: []string{initial}}
}

// Push records fragment as the newest entry.
func (s *Stack) Push(fragment string) {
	s.entries = append(s.entries[:s.pos+1], fragment)
	s.pos = len(s.entries) - 1
	events.Nav.History("push", fragment)
}

// Current returns the fragment at the cursor.
func (s *Stack) Current() string {
	return s.entries[s.pos]
}

// Back moves the cursor one entry back and returns that fragment.
func (s *Stack) Back() (string, bool) {
	if s.pos == 0 {
		return "", false
	}
	s.pos--
	events.Nav.History("back", s.entries[s.pos])
	return s.entries[s.pos], true
}

// Forward moves the cursor one entry forward and returns that fragment.
func (s *Stack) Forward() (string, bool) {
	if s.pos >= len(s.entries)-1 {
		return "", false
	}
	s.pos++
	events.Nav.History("forward", s.entries[s.pos])
	return s.entries[s.pos], true
}

// Len returns the number of recorded entries.
func (s *Stack) Len() int {
	return len(s.entries)
}
