package ui

import (
	"strings"

	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/state"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

var tabKeys = map[string]nav.Tab{
	"1": nav.TabController,
	"2": nav.TabAllNodes,
	"3": nav.TabOneNode,
	"4": nav.TabLogs,
	"5": nav.TabSlow,
	"6": nav.TabFailed,
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode == ModeFilter {
		return m.handleFilterKey(keyMsg)
	}

	key := keyMsg.String()
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "tab":
		m.selectTab(nextTab(m.navigator.Tab(), 1), nav.Trigger{})
		return nil
	case "shift+tab":
		m.selectTab(nextTab(m.navigator.Tab(), -1), nav.Trigger{})
		return nil
	case "[":
		m.historyBack()
		return nil
	case "]":
		m.historyForward()
		return nil
	case "up":
		m.moveCursor(-1)
		return nil
	case "down":
		m.moveCursor(1)
		return nil
	case "pgup":
		m.moveCursorPage(-1)
		return nil
	case "pgdown":
		m.moveCursorPage(1)
		return nil
	case "home":
		m.moveCursorHome()
		return nil
	case "end":
		m.moveCursorEnd()
		return nil
	case "enter":
		return m.handleEnterKey()
	case "esc":
		m.handleEscapeKey()
		return nil
	case "/":
		m.startFilter()
		return nil
	case "+", "=":
		m.nudgeSlider(sliderStep)
		return nil
	case "-", "_":
		m.nudgeSlider(-sliderStep)
		return nil
	}
	if tab, ok := tabKeys[key]; ok {
		m.selectTab(tab, nav.Trigger{})
		return nil
	}
	if keyMsg.Type == tea.KeyRunes && !keyMsg.Alt {
		return m.triggerActionKey(key)
	}
	return nil
}

func nextTab(current nav.Tab, delta int) nav.Tab {
	tabs := nav.Tabs()
	idx := 0
	for i, tab := range tabs {
		if tab == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	return tabs[idx]
}

func (m *Model) selectTab(tab nav.Tab, trigger nav.Trigger) {
	if m.mode == ModeFilter {
		m.stopFilter()
	}
	m.errMsg = ""
	m.navigator.Select(tab, trigger)
}

func (m *Model) historyBack() {
	fragment, ok := m.history.Back()
	if !ok {
		m.setInfo("No earlier location")
		return
	}
	m.popTo(fragment)
}

func (m *Model) historyForward() {
	fragment, ok := m.history.Forward()
	if !ok {
		m.setInfo("No later location")
		return
	}
	m.popTo(fragment)
}

func (m *Model) popTo(fragment string) {
	if _, err := m.navigator.Pop(fragment); err != nil {
		m.setInfo("Unknown location " + fragment + ": showing controller")
	}
}

// handleEnterKey opens the node under the cursor from the all-nodes list.
func (m *Model) handleEnterKey() tea.Cmd {
	if m.navigator.Tab() != nav.TabAllNodes {
		return nil
	}
	row, ok := m.currentRow()
	if !ok {
		return nil
	}
	m.selectTab(nav.TabOneNode, nav.Trigger{NodeID: row.slot.NodeID})
	return nil
}

// handleEscapeKey drops a lingering quick-find or log filter on the
// visible tab.
func (m *Model) handleEscapeKey() {
	switch m.navigator.Tab() {
	case nav.TabAllNodes:
		if m.nodeQuery.Clear() {
			events.Filter.Cleared(nav.TabAllNodes.ID())
			m.rows.Clamp(len(m.visibleRows()))
		}
	case nav.TabLogs:
		if m.logQuery.Clear() {
			m.applyLogFilter()
		}
	}
}

// activeViewport returns the scroll state of the visible tab and the number
// of entries it scrolls over.
func (m *Model) activeViewport() (*uistate.Viewport, int) {
	switch m.navigator.Tab() {
	case nav.TabController:
		return &m.controller, len(m.controllerLines())
	case nav.TabAllNodes:
		return &m.rows, len(m.visibleRows())
	case nav.TabOneNode:
		return &m.detail, len(m.detailLines())
	case nav.TabLogs:
		return &m.stores.Logs.Viewport, m.stores.Logs.Len()
	case nav.TabSlow:
		return &m.stores.Slow.Viewport, m.stores.Slow.Len()
	case nav.TabFailed:
		return &m.stores.Failed.Viewport, m.stores.Failed.Len()
	}
	return nil, 0
}

func (m *Model) moveCursor(delta int) {
	vp, n := m.activeViewport()
	if vp == nil {
		return
	}
	if vp.Move(n, delta) {
		events.UI.Cursor(m.navigator.Tab().ID(), vp.Cursor)
	}
	vp.EnsureVisible(n, m.maxVisibleItems())
}

func (m *Model) moveCursorPage(direction int) {
	vp, n := m.activeViewport()
	if vp == nil {
		return
	}
	var moved bool
	if direction < 0 {
		moved = vp.PageUp(n, m.maxVisibleItems())
	} else {
		moved = vp.PageDown(n, m.maxVisibleItems())
	}
	if moved {
		events.UI.Cursor(m.navigator.Tab().ID(), vp.Cursor)
	}
	vp.EnsureVisible(n, m.maxVisibleItems())
}

func (m *Model) moveCursorHome() {
	vp, n := m.activeViewport()
	if vp == nil {
		return
	}
	if vp.Home(n) {
		events.UI.Cursor(m.navigator.Tab().ID(), vp.Cursor)
	}
	vp.EnsureVisible(n, m.maxVisibleItems())
}

func (m *Model) moveCursorEnd() {
	vp, n := m.activeViewport()
	if vp == nil {
		return
	}
	if vp.End(n) {
		events.UI.Cursor(m.navigator.Tab().ID(), vp.Cursor)
	}
	vp.EnsureVisible(n, m.maxVisibleItems())
}

// rowEntry is a visible pool slot together with its slot index.
type rowEntry struct {
	index int
	slot  state.RowSlot
}

// visibleRows lists the pool's visible slots that pass the quick-find query.
func (m *Model) visibleRows() []rowEntry {
	slots := m.stores.Rows.Visible()
	labels := make([]string, len(slots))
	for i, slot := range slots {
		labels[i] = strings.TrimSpace(slot.NodeID + " " + slot.Name)
	}
	indices := uistate.MatchIndices(labels, m.nodeQuery.Text)
	out := make([]rowEntry, 0, len(indices))
	for _, idx := range indices {
		out = append(out, rowEntry{index: idx, slot: slots[idx]})
	}
	return out
}

func (m *Model) currentRow() (rowEntry, bool) {
	rows := m.visibleRows()
	if m.rows.Cursor < 0 || m.rows.Cursor >= len(rows) {
		return rowEntry{}, false
	}
	return rows[m.rows.Cursor], true
}
