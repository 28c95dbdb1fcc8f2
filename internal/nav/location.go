package nav

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNode is the node current before anything selects one.
const DefaultNode = "0"

// ErrUnknownTab reports a fragment naming no known tab.
var ErrUnknownTab = errors.New("unknown tab")

// Location is the navigable state: the visible tab and the current node.
// NodeID is remembered across tab switches but only serialized for the
// one-node tab.
type Location struct {
	Tab    Tab
	NodeID string
}

// Fragment renders the location as "#tab-id" or "#tab-one-node/<node>".
func (l Location) Fragment() string {
	if l.Tab == TabOneNode && l.NodeID != "" {
		return "#" + l.Tab.ID() + "/" + l.NodeID
	}
	return "#" + l.Tab.ID()
}

// ParseFragment decodes "#tab-id[/node]"; the leading '#' is optional and an
// empty fragment means the controller tab. The returned NodeID is empty when
// the fragment has no node segment. An unknown tab yields the controller tab
// together with ErrUnknownTab.
func ParseFragment(fragment string) (Location, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if raw == "" {
		return Location{Tab: TabController}, nil
	}
	tabID, node, _ := strings.Cut(raw, "/")
	if i := strings.IndexByte(node, '/'); i >= 0 {
		node = node[:i]
	}
	tab, ok := TabFromID(tabID)
	if !ok {
		return Location{Tab: TabController, NodeID: node}, fmt.Errorf("%w: %q", ErrUnknownTab, tabID)
	}
	return Location{Tab: tab, NodeID: node}, nil
}
