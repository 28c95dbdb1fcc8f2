// Package nav tracks which dashboard tab is visible and which node is
// current, and maps both to and from the location fragment.
package nav

import "fmt"

// Tab is one of the six dashboard panels.
type Tab int

const (
	TabController Tab = iota
	TabAllNodes
	TabOneNode
	TabLogs
	TabSlow
	TabFailed
)

var tabIDs = [...]string{
	TabController: "tab-controller",
	TabAllNodes:   "tab-all-nodes",
	TabOneNode:    "tab-one-node",
	TabLogs:       "tab-logs",
	TabSlow:       "tab-slow",
	TabFailed:     "tab-failed",
}

var tabTitles = [...]string{
	TabController: "Controller",
	TabAllNodes:   "All Nodes",
	TabOneNode:    "Node",
	TabLogs:       "Logs",
	TabSlow:       "Slow",
	TabFailed:     "Failed",
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return []Tab{TabController, TabAllNodes, TabOneNode, TabLogs, TabSlow, TabFailed}
}

// Valid reports whether t names one of the six tabs.
func (t Tab) Valid() bool {
	return t >= TabController && t <= TabFailed
}

// ID returns the fragment name of the tab, e.g. "tab-logs".
func (t Tab) ID() string {
	if !t.Valid() {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabIDs[t]
}

// Title returns the label shown in the tab bar.
func (t Tab) Title() string {
	if !t.Valid() {
		return t.ID()
	}
	return tabTitles[t]
}

func (t Tab) String() string { return t.ID() }

// TabFromID resolves a fragment name.
func TabFromID(id string) (Tab, bool) {
	for i, candidate := range tabIDs {
		if candidate == id {
			return Tab(i), true
		}
	}
	return TabController, false
}
