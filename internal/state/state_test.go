package state

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/protocol"
)

func snapshots(n int, prefix string) []protocol.NodeSnapshot {
	out := make([]protocol.NodeSnapshot, n)
	for i := range out {
		out[i] = protocol.NodeSnapshot{
			No:          protocol.NodeID(fmt.Sprint(i + 1)),
			Name:        fmt.Sprintf("%s-%d", prefix, i+1),
			SwitchLevel: protocol.Level(i % 101),
			Controls:    map[string]bool{"node_slide": i%2 == 0},
		}
	}
	return out
}

func TestRowPoolApplyVisibilityForEveryLength(t *testing.T) {
	const capacity = 8
	for l := 0; l <= capacity; l++ {
		pool := NewRowPool(capacity)
		pool.Apply(snapshots(capacity, "stale"))
		mask := pool.Apply(snapshots(l, "fresh"))

		for i := 0; i < capacity; i++ {
			slot, _ := pool.Slot(i)
			if mask[i] != (i < l) || slot.Visible != (i < l) {
				t.Fatalf("L=%d slot %d: expected visible=%v, got mask=%v slot=%v", l, i, i < l, mask[i], slot.Visible)
			}
			if i < l {
				if slot.NodeID != fmt.Sprint(i+1) || slot.Name != fmt.Sprintf("fresh-%d", i+1) {
					t.Fatalf("L=%d slot %d: expected fresh binding, got %#v", l, i, slot)
				}
			} else if slot.Name != fmt.Sprintf("stale-%d", i+1) {
				t.Fatalf("L=%d slot %d: expected hidden slot to retain content, got %q", l, i, slot.Name)
			}
		}
		if pool.Len() != l || len(pool.Visible()) != l {
			t.Fatalf("L=%d: expected %d visible rows, got %d", l, l, pool.Len())
		}
	}
}

func TestRowPoolApplyTruncatesOversizedPush(t *testing.T) {
	pool := NewRowPool(3)
	pool.Apply(snapshots(5, "n"))
	if pool.Len() != 3 || pool.Capacity() != 3 {
		t.Fatalf("expected truncation to capacity, got len=%d cap=%d", pool.Len(), pool.Capacity())
	}
}

func TestRowPoolDefaultCapacity(t *testing.T) {
	if got := NewRowPool(0).Capacity(); got != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}

func TestRowPoolBindReplacesControls(t *testing.T) {
	pool := NewRowPool(2)
	pool.Apply([]protocol.NodeSnapshot{{No: "1", Controls: map[string]bool{"node_slide": false, "node_switch_on": false}}})
	pool.Apply([]protocol.NodeSnapshot{{No: "1", Controls: map[string]bool{"node_slide": true}}})
	slot, _ := pool.Slot(0)
	if !slot.ControlVisible("node_slide") || !slot.ControlVisible("node_switch_on") {
		t.Fatalf("expected controls fully replaced, got %#v", slot.Controls)
	}
}

func TestRowPoolPatchNodePatchesFirstMatchOnly(t *testing.T) {
	pool := NewRowPool(4)
	pool.Apply([]protocol.NodeSnapshot{{No: "7", Name: "a"}, {No: "7", Name: "b"}, {No: "8", Name: "c"}})

	if !pool.PatchNode("7", protocol.NodeSnapshot{No: "7", Name: "patched"}) {
		t.Fatalf("expected a row for node 7")
	}
	first, _ := pool.Slot(0)
	second, _ := pool.Slot(1)
	if first.Name != "patched" || second.Name != "b" {
		t.Fatalf("expected only the first row patched, got %q and %q", first.Name, second.Name)
	}
	if pool.PatchNode("99", protocol.NodeSnapshot{}) {
		t.Fatalf("expected no row for node 99")
	}
}

func TestRowPoolPatchNodeIgnoresHiddenSlots(t *testing.T) {
	pool := NewRowPool(3)
	pool.Apply([]protocol.NodeSnapshot{{No: "1"}, {No: "2"}, {No: "3"}})
	pool.Apply([]protocol.NodeSnapshot{{No: "1"}})
	if pool.PatchNode("3", protocol.NodeSnapshot{No: "3", Name: "late"}) {
		t.Fatalf("expected hidden slot to be inert")
	}
}

func TestRowPoolSliderIsOverwrittenByPush(t *testing.T) {
	pool := NewRowPool(2)
	pool.Apply([]protocol.NodeSnapshot{{No: "1", SwitchLevel: 10}})
	if !pool.SetSlider(0, 150) {
		t.Fatalf("expected slider on visible row")
	}
	slot, _ := pool.Slot(0)
	if slot.SwitchLevel != SliderMax {
		t.Fatalf("expected slider clamped to %d, got %d", SliderMax, slot.SwitchLevel)
	}
	if pool.SetSlider(1, 5) {
		t.Fatalf("expected hidden row to reject slider")
	}
	pool.Apply([]protocol.NodeSnapshot{{No: "1", SwitchLevel: 10}})
	slot, _ = pool.Slot(0)
	if slot.SwitchLevel != 10 {
		t.Fatalf("expected push to overwrite local slider, got %d", slot.SwitchLevel)
	}
}

func TestApplyNodeUpdateForUnselectedNodePatchesRowOnly(t *testing.T) {
	pool := NewRowPool(4)
	pool.Apply([]protocol.NodeSnapshot{{No: "3", Name: "x"}, {No: "4", Name: "y"}})
	panel := NewDetailPanel()
	panel.Apply("4", "4", protocol.NodeDetail{Basics: "y-basics"})

	detail := protocol.NodeDetail{NodeSnapshot: protocol.NodeSnapshot{No: "3", Name: "x2"}, Basics: "x-basics"}
	applied, patched := ApplyNodeUpdate(panel, pool, "4", "3", detail)
	if applied {
		t.Fatalf("expected detail for node 3 to be ignored while 4 is selected")
	}
	if !patched {
		t.Fatalf("expected row for node 3 to be patched")
	}
	got, _ := panel.Detail()
	if got.Basics != "y-basics" {
		t.Fatalf("expected panel unchanged, got %q", got.Basics)
	}
	slot, _ := pool.Slot(0)
	if slot.Name != "x2" {
		t.Fatalf("expected patched row name, got %q", slot.Name)
	}
}

func TestApplyNodeUpdateForSelectedNode(t *testing.T) {
	pool := NewRowPool(2)
	panel := NewDetailPanel()
	detail := protocol.NodeDetail{
		NodeSnapshot: protocol.NodeSnapshot{No: "9", SwitchLevel: 30, Controls: map[string]bool{"node_scene_refresh": false}},
		Scenes:       "none",
	}
	applied, patched := ApplyNodeUpdate(panel, pool, "9", "9", detail)
	if !applied || patched {
		t.Fatalf("expected panel applied and no row, got %v %v", applied, patched)
	}
	if panel.NodeID() != "9" || panel.Slider() != 30 || panel.ControlVisible("node_scene_refresh") {
		t.Fatalf("unexpected panel state id=%q slider=%d", panel.NodeID(), panel.Slider())
	}
	panel.SetSlider(-4)
	if panel.Slider() != SliderMin {
		t.Fatalf("expected slider clamped to %d, got %d", SliderMin, panel.Slider())
	}
}

func TestEventHistoryKeepsLastSix(t *testing.T) {
	h := NewEventHistory()
	if got := h.Entries(); len(got) != EventHistorySize || strings.Join(got, "") != "" {
		t.Fatalf("expected six empty entries, got %q", got)
	}
	var pushed []string
	for i := 0; i < 10; i++ {
		e := fmt.Sprintf("e%d", i)
		pushed = append(pushed, e)
		h.Push(e)
		if len(h.Entries()) != EventHistorySize {
			t.Fatalf("expected fixed size after %d pushes", i+1)
		}
	}
	want := pushed[len(pushed)-EventHistorySize:]
	if !reflect.DeepEqual(h.Entries(), want) {
		t.Fatalf("expected %v, got %v", want, h.Entries())
	}
	if h.Text() != strings.Join(want, "\n") {
		t.Fatalf("unexpected text %q", h.Text())
	}
}

func TestEventHistoryPartialFill(t *testing.T) {
	h := NewEventHistory()
	h.Push("a")
	h.Push("b")
	want := []string{"", "", "", "", "a", "b"}
	if !reflect.DeepEqual(h.Entries(), want) {
		t.Fatalf("expected %v, got %v", want, h.Entries())
	}
}

func TestRegionStoreAndPanels(t *testing.T) {
	store := NewRegionStore()
	store.Set(RegionStatus, "<b>up</b>")
	if store.Get(RegionStatus) != "<b>up</b>" || store.Get(RegionDriver) != "" {
		t.Fatalf("unexpected region values")
	}

	panels := NewPanels()
	panels.Show(nav.TabLogs)
	panels.HideAll()
	panels.Show(nav.TabSlow)
	if !reflect.DeepEqual(panels.Active(), []nav.Tab{nav.TabSlow}) || panels.Shown(nav.TabLogs) {
		t.Fatalf("expected only the slow panel shown, got %v", panels.Active())
	}
}
