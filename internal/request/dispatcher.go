// Package request turns navigation and user actions into one-way requests
// against the dashboard server. Responses are never read; the server answers
// through the push channel.
package request

import (
	"net/url"
	"strings"

	"github.com/atomicstack/meshdash/internal/nav"
)

const (
	// StatusPath refreshes the driver status region. It accompanies every
	// view refresh.
	StatusPath = "/display/DRIVER"
	// CurrentPlaceholder in an action template is replaced by the node id.
	CurrentPlaceholder = "<CURRENT>"
)

var viewNames = map[nav.Tab]string{
	nav.TabController: "CONTROLLER",
	nav.TabAllNodes:   "ALL_NODES",
	nav.TabOneNode:    "ONE_NODE",
	nav.TabLogs:       "LOGS",
	nav.TabSlow:       "BAD",
	nav.TabFailed:     "FAILED",
}

// Sender delivers a request path. Implementations must not block the caller
// on the network.
type Sender interface {
	Send(path string)
}

// ViewPath returns the refresh path for tab. The one-node view carries the
// node id as its last segment.
func ViewPath(tab nav.Tab, node string) string {
	name, ok := viewNames[tab]
	if !ok {
		name = viewNames[nav.TabController]
	}
	if tab == nav.TabOneNode {
		return "/display/" + name + "/" + node
	}
	return "/display/" + name
}

// ActionPath expands template: the first <CURRENT> becomes node and each
// argument is appended as an escaped path segment.
func ActionPath(template, node string, args []string) string {
	path := strings.Replace(template, CurrentPlaceholder, node, 1)
	if len(args) == 0 {
		return path
	}
	segments := make([]string, len(args))
	for i, arg := range args {
		segments[i] = url.PathEscape(arg)
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + strings.Join(segments, "/")
}

// Dispatcher issues view refreshes and actions through a Sender.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher returns a dispatcher that sends through sender.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// RequestView asks for the tab's view and then for the driver status.
func (d *Dispatcher) RequestView(tab nav.Tab, node string) {
	if d.sender == nil {
		return
	}
	d.sender.Send(ViewPath(tab, node))
	d.sender.Send(StatusPath)
}

// RequestAction expands and sends an action, returning the path sent.
func (d *Dispatcher) RequestAction(template, node string, args []string) string {
	path := ActionPath(template, node, args)
	if d.sender != nil {
		d.sender.Send(path)
	}
	return path
}
