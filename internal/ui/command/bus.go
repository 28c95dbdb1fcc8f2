package command

import (
	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/request"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates an action invocation.
type Request struct {
	Action actions.Action
	NodeID string
	Args   []string
}

// Result reports a fired action back to the model.
type Result struct {
	ID    string
	Label string
	Path  string
}

// Bus fires catalog actions through the request dispatcher.
type Bus struct {
	requests *request.Dispatcher
}

// New initialises a command bus instance.
func New(requests *request.Dispatcher) *Bus {
	return &Bus{requests: requests}
}

// Execute fires req immediately, so requests leave in the order the user
// triggered them, and returns a command reporting the sent path.
func (b *Bus) Execute(req Request) tea.Cmd {
	a := req.Action
	events.Command.Queue(a.ID, a.Path)
	if b == nil || b.requests == nil || a.Path == "" {
		events.Command.Skip(a.ID)
		return nil
	}
	path := b.requests.RequestAction(a.Path, req.NodeID, req.Args)
	events.Command.Sent(a.ID, path)
	return func() tea.Msg {
		return Result{ID: a.ID, Label: a.Label, Path: path}
	}
}
