package state

import (
	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/protocol"
)

// DetailPanel holds the single-node view for the current node.
type DetailPanel struct {
	nodeID    string
	detail    protocol.NodeDetail
	slider    int
	populated bool
}

// NewDetailPanel returns an empty panel.
func NewDetailPanel() *DetailPanel {
	return &DetailPanel{}
}

// Apply overwrites the panel with detail when id is the selected node and
// reports whether it did. Updates for any other node are stale and dropped.
func (d *DetailPanel) Apply(selected, id string, detail protocol.NodeDetail) bool {
	if id != selected {
		return false
	}
	d.nodeID = id
	d.detail = detail
	d.detail.Controls = cloneControls(detail.Controls)
	d.slider = clampLevel(int(detail.SwitchLevel))
	d.populated = true
	return true
}

// Detail returns the last applied detail and whether one has been applied.
func (d *DetailPanel) Detail() (protocol.NodeDetail, bool) {
	detail := d.detail
	detail.Controls = cloneControls(d.detail.Controls)
	return detail, d.populated
}

// NodeID returns the node the panel was last populated for.
func (d *DetailPanel) NodeID() string { return d.nodeID }

// ControlVisible reports whether a sub-control of the panel is shown.
func (d *DetailPanel) ControlVisible(name string) bool {
	visible, ok := d.detail.Controls[name]
	return !ok || visible
}

// Slider returns the panel's slider position.
func (d *DetailPanel) Slider() int { return d.slider }

// SetSlider moves the slider locally until the next push.
func (d *DetailPanel) SetSlider(level int) {
	d.slider = clampLevel(level)
	events.UI.Slider(d.nodeID, d.slider)
}

// ApplyNodeUpdate routes a single-node push: the panel takes it only for the
// selected node, while the first row tagged with id is patched regardless.
func ApplyNodeUpdate(panel *DetailPanel, pool *RowPool, selected, id string, detail protocol.NodeDetail) (detailApplied, rowPatched bool) {
	if detail.No == "" {
		detail.No = protocol.NodeID(id)
	}
	if panel != nil {
		detailApplied = panel.Apply(selected, id, detail)
	}
	if pool != nil {
		rowPatched = pool.PatchNode(id, detail.NodeSnapshot)
	}
	events.Sync.Node(id, selected, detailApplied, rowPatched)
	return detailApplied, rowPatched
}
