package ui

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const sliderStep = 10

// actionTarget is what an action key applies to on the visible tab.
type actionTarget struct {
	scope    actions.Scope
	rowsOnly bool
	nodeID   string
	visible  func(string) bool
	slider   int
	hasNode  bool
}

func (m *Model) actionTarget() (actionTarget, bool) {
	switch m.navigator.Tab() {
	case nav.TabController:
		return actionTarget{scope: actions.ScopeController, nodeID: m.navigator.CurrentNode()}, true
	case nav.TabAllNodes:
		row, ok := m.currentRow()
		if !ok {
			return actionTarget{}, false
		}
		return actionTarget{
			scope:    actions.ScopeNode,
			rowsOnly: true,
			nodeID:   row.slot.NodeID,
			visible:  row.slot.ControlVisible,
			slider:   row.slot.SwitchLevel,
			hasNode:  true,
		}, true
	case nav.TabOneNode:
		panel := m.stores.Detail
		target := actionTarget{
			scope:   actions.ScopeNode,
			nodeID:  m.navigator.CurrentNode(),
			hasNode: true,
		}
		if panel.NodeID() == target.nodeID {
			target.visible = panel.ControlVisible
			target.slider = panel.Slider()
		}
		return target, true
	}
	return actionTarget{}, false
}

// actionsForTab lists the actions offered on the visible tab.
func (m *Model) actionsForTab() []actions.Action {
	target, ok := m.actionTarget()
	if !ok {
		return nil
	}
	return actions.Visible(m.catalog.ForScope(target.scope, target.rowsOnly), target.visible)
}

func (m *Model) triggerActionKey(key string) tea.Cmd {
	target, ok := m.actionTarget()
	if !ok {
		return nil
	}
	a, ok := actions.ByKey(m.actionsForTab(), key)
	if !ok {
		return nil
	}
	m.errMsg = ""
	if a.ID == actions.SliderAction {
		return m.fire(a, target.nodeID, []string{strconv.Itoa(target.slider)})
	}
	if a.NeedsInput() {
		m.startActionForm(a, target.nodeID)
		return nil
	}
	return m.fire(a, target.nodeID, nil)
}

func (m *Model) fire(a actions.Action, nodeID string, args []string) tea.Cmd {
	return m.bus.Execute(command.Request{Action: a, NodeID: nodeID, Args: args})
}

// nudgeSlider moves the slider of the row or node in view. The change is
// local until it is committed or the next push overwrites it.
func (m *Model) nudgeSlider(delta int) {
	target, ok := m.actionTarget()
	if !ok || !target.hasNode {
		return
	}
	if target.visible != nil && !target.visible("node_slide") {
		return
	}
	switch m.navigator.Tab() {
	case nav.TabAllNodes:
		row, ok := m.currentRow()
		if ok {
			m.stores.Rows.SetSlider(row.index, row.slot.SwitchLevel+delta)
		}
	case nav.TabOneNode:
		if _, populated := m.stores.Detail.Detail(); populated && m.stores.Detail.NodeID() == target.nodeID {
			m.stores.Detail.SetSlider(m.stores.Detail.Slider() + delta)
		}
	}
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if m.verbose {
		m.setInfo(fmt.Sprintf("Sent %s", res.Path))
		return nil
	}
	m.setInfo(fmt.Sprintf("%s requested", res.Label))
	return nil
}

func (m *Model) startActionForm(a actions.Action, nodeID string) {
	m.form = NewActionForm(a, nodeID)
	m.mode = ModeForm
	events.Action.Prompt(a.ID, m.form.Values())
}
