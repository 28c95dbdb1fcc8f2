package state

import "github.com/atomicstack/meshdash/internal/nav"

// Region names a server-owned text area of the dashboard.
type Region string

const (
	RegionActivity         Region = "activity"
	RegionStatus           Region = "status"
	RegionDriver           Region = "driver"
	RegionControllerBasics Region = "controller_basics"
	RegionControllerRoutes Region = "controller_routes"
	RegionControllerAPIs   Region = "controller_apis"
	RegionTimestamp        Region = "timestamp"
)

// RegionStore holds the verbatim fragment of each region.
type RegionStore interface {
	Get(Region) string
	Set(Region, string)
}

type regionStore struct {
	values map[Region]string
}

func NewRegionStore() RegionStore {
	return &regionStore{values: make(map[Region]string)}
}

func (s *regionStore) Get(r Region) string {
	return s.values[r]
}

func (s *regionStore) Set(r Region, html string) {
	s.values[r] = html
}

// Panels tracks which tab panel is displayed. It satisfies nav.Regions.
type Panels struct {
	shown map[nav.Tab]bool
}

func NewPanels() *Panels {
	return &Panels{shown: make(map[nav.Tab]bool)}
}

// HideAll hides every panel.
func (p *Panels) HideAll() {
	for _, tab := range nav.Tabs() {
		p.shown[tab] = false
	}
}

// Show displays one panel.
func (p *Panels) Show(tab nav.Tab) {
	p.shown[tab] = true
}

// Shown reports whether tab's panel is displayed.
func (p *Panels) Shown(tab nav.Tab) bool {
	return p.shown[tab]
}

// Active returns the displayed panels in tab order.
func (p *Panels) Active() []nav.Tab {
	var out []nav.Tab
	for _, tab := range nav.Tabs() {
		if p.shown[tab] {
			out = append(out, tab)
		}
	}
	return out
}
