package nav

import (
	"github.com/atomicstack/meshdash/internal/logging"
	"github.com/atomicstack/meshdash/internal/logging/events"
)

// Regions shows and hides the tab panels.
type Regions interface {
	HideAll()
	Show(tab Tab)
}

// History records locations the user navigated to.
type History interface {
	Push(fragment string)
}

// Requester asks the server to refresh a view.
type Requester interface {
	RequestView(tab Tab, node string)
}

// Trigger describes what the user acted on when selecting a tab. NodeID is
// the node bound to that element, empty when it carries none.
type Trigger struct {
	NodeID string
}

// Navigator applies tab transitions. In order: hide all panels, show the
// target, resolve the current node, record history, request a refresh.
type Navigator struct {
	regions   Regions
	history   History
	requester Requester

	loc Location
}

// New returns a navigator on the controller tab with DefaultNode current.
func New(regions Regions, history History, requester Requester) *Navigator {
	return &Navigator{
		regions:   regions,
		history:   history,
		requester: requester,
		loc:       Location{Tab: TabController, NodeID: DefaultNode},
	}
}

// Location returns the current location.
func (n *Navigator) Location() Location { return n.loc }

// Tab returns the visible tab.
func (n *Navigator) Tab() Tab { return n.loc.Tab }

// CurrentNode returns the node the one-node tab shows.
func (n *Navigator) CurrentNode() string { return n.loc.NodeID }

// Select switches to tab because the user asked for it and pushes the new
// location onto the history. Selecting the one-node tab adopts the trigger's
// node when it has one.
func (n *Navigator) Select(tab Tab, trigger Trigger) Location {
	if !tab.Valid() {
		logging.Warn("nav.select", ErrUnknownTab)
		tab = TabController
	}
	n.reveal(tab)
	if tab == TabOneNode && trigger.NodeID != "" {
		n.loc.NodeID = trigger.NodeID
	}
	n.loc.Tab = tab
	fragment := n.loc.Fragment()
	if n.history != nil {
		n.history.Push(fragment)
	}
	n.request()
	events.Nav.Transition(events.NavCauseSelect, tab.ID(), n.loc.NodeID, fragment)
	return n.loc
}

// Load applies the location encoded in fragment at startup. History is not
// touched. The transition always happens; a non-nil error is a warning that
// the fragment named an unknown tab and the controller tab was shown.
func (n *Navigator) Load(fragment string) (Location, error) {
	return n.apply(fragment, events.NavCauseLoad)
}

// Pop applies a fragment reached through back/forward. History is not
// touched. Errors are reported as for Load.
func (n *Navigator) Pop(fragment string) (Location, error) {
	return n.apply(fragment, events.NavCausePop)
}

// Refresh re-requests the current location without touching panels or
// history. The server answers only sockets connected at request time, so
// the start location is requested again once the push channel is up.
func (n *Navigator) Refresh() Location {
	n.request()
	events.Nav.Transition(events.NavCauseResync, n.loc.Tab.ID(), n.loc.NodeID, n.loc.Fragment())
	return n.loc
}

func (n *Navigator) apply(fragment string, cause events.NavCause) (Location, error) {
	parsed, err := ParseFragment(fragment)
	if err != nil {
		logging.Warn("nav."+string(cause), err)
	}
	n.reveal(parsed.Tab)
	if parsed.NodeID != "" {
		n.loc.NodeID = parsed.NodeID
	}
	n.loc.Tab = parsed.Tab
	n.request()
	events.Nav.Transition(cause, n.loc.Tab.ID(), n.loc.NodeID, fragment)
	return n.loc, err
}

func (n *Navigator) reveal(tab Tab) {
	if n.regions != nil {
		n.regions.HideAll()
		n.regions.Show(tab)
	}
}

func (n *Navigator) request() {
	if n.requester != nil {
		n.requester.RequestView(n.loc.Tab, n.loc.NodeID)
	}
}
