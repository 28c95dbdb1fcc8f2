package state

import (
	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/protocol"
)

const (
	// DefaultCapacity covers several hundred nodes plus their channel rows.
	DefaultCapacity = 500

	SliderMin = 0
	SliderMax = 100
)

// RowSlot is one pre-allocated row of the all-nodes view. A hidden slot keeps
// its last binding but is never read for display.
type RowSlot struct {
	Index       int
	Visible     bool
	NodeID      string
	Name        string
	SwitchLevel int
	Readings    string
	State       string
	Product     string
	LastContact string
	Controls    map[string]bool
}

// ControlVisible reports whether the named sub-control is shown. Controls the
// server never mentioned stay visible.
func (s RowSlot) ControlVisible(name string) bool {
	visible, ok := s.Controls[name]
	return !ok || visible
}

func (s *RowSlot) bind(snap protocol.NodeSnapshot) {
	s.NodeID = snap.No.String()
	s.Name = snap.Name
	s.SwitchLevel = clampLevel(int(snap.SwitchLevel))
	s.Readings = snap.Readings
	s.State = snap.State
	s.Product = snap.Product
	s.LastContact = snap.LastContact
	s.Controls = cloneControls(snap.Controls)
}

// RowPool maps each ordered snapshot push onto a fixed set of slots by
// position.
type RowPool struct {
	slots   []RowSlot
	visible int
}

// NewRowPool allocates capacity hidden slots; capacity <= 0 selects
// DefaultCapacity.
func NewRowPool(capacity int) *RowPool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	slots := make([]RowSlot, capacity)
	for i := range slots {
		slots[i].Index = i
	}
	return &RowPool{slots: slots}
}

// Apply shows and overwrites slots [0,L) from snaps and hides [L,C). Pushes
// longer than the capacity are truncated. The returned mask has one entry per
// slot.
func (p *RowPool) Apply(snaps []protocol.NodeSnapshot) []bool {
	capacity := len(p.slots)
	if len(snaps) > capacity {
		events.Sync.RowsTruncated(len(snaps), capacity)
		snaps = snaps[:capacity]
	}
	mask := make([]bool, capacity)
	for i := range snaps {
		p.slots[i].Visible = true
		p.slots[i].bind(snaps[i])
		mask[i] = true
	}
	for i := len(snaps); i < capacity; i++ {
		p.slots[i].Visible = false
	}
	p.visible = len(snaps)
	events.Sync.Rows(p.visible, capacity)
	return mask
}

// PatchNode rebinds the first visible slot tagged with id. It reports
// whether such a slot exists.
func (p *RowPool) PatchNode(id string, snap protocol.NodeSnapshot) bool {
	for i := 0; i < p.visible; i++ {
		if p.slots[i].NodeID == id {
			p.slots[i].bind(snap)
			return true
		}
	}
	return false
}

// FindNode returns the index of the first visible slot tagged with id.
func (p *RowPool) FindNode(id string) (int, bool) {
	for i := 0; i < p.visible; i++ {
		if p.slots[i].NodeID == id {
			return i, true
		}
	}
	return -1, false
}

// SetSlider moves a visible slot's slider locally. The next push overwrites it.
func (p *RowPool) SetSlider(index, level int) bool {
	if index < 0 || index >= p.visible {
		return false
	}
	p.slots[index].SwitchLevel = clampLevel(level)
	events.UI.Slider(p.slots[index].NodeID, p.slots[index].SwitchLevel)
	return true
}

// Slot returns a copy of slot i, hidden or not.
func (p *RowPool) Slot(i int) (RowSlot, bool) {
	if i < 0 || i >= len(p.slots) {
		return RowSlot{}, false
	}
	slot := p.slots[i]
	slot.Controls = cloneControls(slot.Controls)
	return slot, true
}

// Visible returns copies of the visible slots in order.
func (p *RowPool) Visible() []RowSlot {
	out := make([]RowSlot, p.visible)
	for i := 0; i < p.visible; i++ {
		out[i] = p.slots[i]
		out[i].Controls = cloneControls(p.slots[i].Controls)
	}
	return out
}

// Len returns the number of visible slots.
func (p *RowPool) Len() int { return p.visible }

// Capacity returns the fixed number of slots.
func (p *RowPool) Capacity() int { return len(p.slots) }

func clampLevel(level int) int {
	if level < SliderMin {
		return SliderMin
	}
	if level > SliderMax {
		return SliderMax
	}
	return level
}

func cloneControls(controls map[string]bool) map[string]bool {
	if len(controls) == 0 {
		return nil
	}
	dup := make(map[string]bool, len(controls))
	for k, v := range controls {
		dup[k] = v
	}
	return dup
}
