package ui

import (
	"github.com/atomicstack/meshdash/internal/backend"
	"github.com/atomicstack/meshdash/internal/data/dispatcher"
	"github.com/atomicstack/meshdash/internal/logging"
	"github.com/atomicstack/meshdash/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

// Status texts shown once the push channel is gone. Neither is retried.
const (
	StatusConnectFailed  = "Cannot connect to Server: try reloading"
	StatusConnectionLost = "Server connection lost: you must reload"
)

func waitForChannelEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-src.Events()
		if !ok {
			return channelDoneMsg{}
		}
		return channelEventMsg{event: evt}
	}
}

type channelEventMsg struct {
	event backend.Event
}

type channelDoneMsg struct{}

func (m *Model) handleChannelEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(channelEventMsg)
	if !ok {
		return nil
	}
	m.applyChannelEvent(eventMsg.event)
	if m.channel != nil && !eventMsg.event.Kind.Terminal() {
		return waitForChannelEvent(m.channel)
	}
	return nil
}

func (m *Model) handleChannelDoneMsg(msg tea.Msg) tea.Cmd {
	m.channel = nil
	return nil
}

func (m *Model) applyChannelEvent(evt backend.Event) {
	switch evt.Kind {
	case backend.KindConnected:
		m.connected = true
		m.navigator.Refresh()
	case backend.KindFailed:
		m.markDead(StatusConnectFailed, evt.Err)
	case backend.KindClosed:
		m.markDead(StatusConnectionLost, evt.Err)
	case backend.KindDropped:
		logging.Warn("channel.drop", evt.Err)
	case backend.KindMessage:
		if m.dead || evt.Msg == nil {
			return
		}
		m.applyResult(m.dispatcher.Handle(evt.Msg))
	}
}

// markDead leaves the dashboard inert: later frames are ignored while
// actions and navigation still fire requests.
func (m *Model) markDead(status string, err error) {
	if m.dead {
		return
	}
	m.dead = true
	m.connected = false
	m.stores.Regions.Set(state.RegionStatus, status)
	if err != nil {
		logging.Error(err)
	}
}

func (m *Model) applyResult(res dispatcher.Result) {
	if res.RowsUpdated || res.RowPatched {
		m.rows.Clamp(len(m.visibleRows()))
	}
	if res.DetailUpdated {
		m.detail.Clamp(len(m.detailLines()))
	}
	if res.ControllerUpdated || res.HistoryUpdated {
		m.controller.Clamp(len(m.controllerLines()))
	}
}
