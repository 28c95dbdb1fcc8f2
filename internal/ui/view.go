package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/meshdash/internal/format/table"
	"github.com/atomicstack/meshdash/internal/fragment"
	"github.com/atomicstack/meshdash/internal/nav"
	"github.com/atomicstack/meshdash/internal/state"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	sliderCells = 10
	footerHint  = "1-6 tabs  tab/shift+tab cycle  [/] back/forward  ↑/↓ move  enter open  / filter  +/- level  q quit"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	tabBar := m.tabBar()
	if m.mode == ModeForm && m.form != nil {
		return m.viewFormWithHeader(tabBar)
	}
	top := m.topLines(tabBar)
	bottom := m.bottomLines()
	body := m.panelLines(m.maxVisibleItems())

	lines := make([]styledLine, 0, len(top)+len(body)+len(bottom))
	lines = append(lines, top...)
	lines = append(lines, body...)
	if m.height > 0 {
		lines = limitHeight(lines, m.height-len(bottom), m.width)
	}
	lines = append(lines, bottom...)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *Model) tabBar() string {
	current := m.navigator.Tab()
	parts := make([]string, 0, len(nav.Tabs()))
	for i, tab := range nav.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if tab == nav.TabOneNode {
			label = fmt.Sprintf("%d %s %s", i+1, tab.Title(), m.navigator.CurrentNode())
		}
		style := styles.Tab
		if tab == current {
			style = styles.ActiveTab
		}
		if style != nil {
			label = style.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (m *Model) connectionLabel() string {
	switch {
	case m.dead:
		return "disconnected"
	case m.connected:
		return "connected"
	default:
		return "connecting…"
	}
}

// topLines renders the tab bar and the always-visible server regions.
func (m *Model) topLines(tabBar string) []styledLine {
	regions := m.stores.Regions
	lines := []styledLine{{text: tabBar, raw: true}}
	header := fmt.Sprintf("meshdash · %s · started %s", m.connectionLabel(), regions.Get(state.RegionTimestamp))
	lines = append(lines, styledLine{text: header, style: styles.Header})

	statusStyle := styles.Status
	if m.dead {
		statusStyle = styles.Error
	}
	lines = append(lines, styledLine{text: "status: " + flatten(regions.Get(state.RegionStatus)), style: statusStyle})
	if driver := flatten(regions.Get(state.RegionDriver)); driver != "" {
		lines = append(lines, styledLine{text: "driver: " + driver, style: styles.Muted})
	}
	if activity := flatten(regions.Get(state.RegionActivity)); activity != "" {
		lines = append(lines, styledLine{text: activity, style: styles.Activity})
	}
	lines = append(lines, styledLine{})
	return lines
}

func (m *Model) bottomLines() []styledLine {
	var lines []styledLine
	if hint := m.actionHint(); hint != "" {
		lines = append(lines, styledLine{text: hint, raw: true})
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: footerHint, style: styles.Footer})
	}
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	}
	if prompt, _ := m.filterPrompt(); prompt != "" {
		lines = append(lines, styledLine{text: prompt, raw: true})
	}
	return lines
}

// actionHint lists the action keys offered on the visible tab.
func (m *Model) actionHint() string {
	offered := m.actionsForTab()
	if len(offered) == 0 {
		return ""
	}
	parts := make([]string, 0, len(offered))
	for _, a := range offered {
		if a.Key == "" {
			continue
		}
		key, label := a.Key, strings.ToLower(a.Label)
		if styles.Key != nil {
			key = styles.Key.Render(key)
		}
		if styles.Muted != nil {
			label = styles.Muted.Render(label)
		}
		parts = append(parts, key+" "+label)
	}
	return strings.Join(parts, "  ")
}

// panelLines renders the visible tab with at most maxRows entry lines; a
// negative maxRows means no limit.
func (m *Model) panelLines(maxRows int) []styledLine {
	switch m.shownTab() {
	case nav.TabController:
		return scrollText(m.controllerLines(), &m.controller, maxRows)
	case nav.TabAllNodes:
		return m.rowLines(maxRows)
	case nav.TabOneNode:
		return scrollText(m.detailLines(), &m.detail, maxRows)
	case nav.TabLogs:
		return m.listLines(m.stores.Logs, []string{"time", "comment", "dir", "message"}, maxRows)
	case nav.TabSlow:
		return m.listLines(m.stores.Slow, []string{"duration", "time", "message"}, maxRows)
	case nav.TabFailed:
		return m.listLines(m.stores.Failed, []string{"duration", "time", "message"}, maxRows)
	}
	return nil
}

// shownTab returns the panel the last transition revealed.
func (m *Model) shownTab() nav.Tab {
	if active := m.panels.Active(); len(active) > 0 {
		return active[0]
	}
	return m.navigator.Tab()
}

func section(title string, body []string) []styledLine {
	lines := []styledLine{{text: title, style: styles.SectionTitle}}
	if len(body) == 0 {
		return append(lines, styledLine{text: "(nothing yet)", style: styles.Muted})
	}
	for _, line := range body {
		lines = append(lines, styledLine{text: line, style: styles.Body})
	}
	return lines
}

func (m *Model) controllerLines() []styledLine {
	regions := m.stores.Regions
	var lines []styledLine
	lines = append(lines, section("Controller", fragment.Lines(regions.Get(state.RegionControllerBasics)))...)
	lines = append(lines, styledLine{})
	lines = append(lines, section("Routes", fragment.Lines(regions.Get(state.RegionControllerRoutes)))...)
	lines = append(lines, styledLine{})
	lines = append(lines, section("APIs", fragment.Lines(regions.Get(state.RegionControllerAPIs)))...)
	lines = append(lines, styledLine{})
	var recent []string
	for _, evt := range m.stores.History.Entries() {
		if evt != "" {
			recent = append(recent, flatten(evt))
		}
	}
	lines = append(lines, section("Events", recent)...)
	return lines
}

func (m *Model) detailLines() []styledLine {
	current := m.navigator.CurrentNode()
	detail, ok := m.stores.Detail.Detail()
	if !ok || m.stores.Detail.NodeID() != current {
		return []styledLine{{text: fmt.Sprintf("Waiting for node %s…", current), style: styles.Info}}
	}
	panel := m.stores.Detail
	title := fmt.Sprintf("Node %s", current)
	if detail.Name != "" {
		title += ": " + detail.Name
	}
	lines := []styledLine{{text: title, style: styles.Header}}
	if panel.ControlVisible("node_slide") {
		lines = append(lines, styledLine{text: "level " + sliderBar(panel.Slider()), style: styles.SliderFill})
	}
	for _, field := range []struct{ label, value string }{
		{"readings", detail.Readings},
		{"state", detail.State},
		{"product", detail.Product},
		{"last contact", detail.LastContact},
	} {
		if value := flatten(field.value); value != "" {
			lines = append(lines, styledLine{text: field.label + ": " + value, style: styles.Body})
		}
	}
	for _, sec := range []struct{ title, html string }{
		{"Basics", detail.Basics},
		{"Command Classes", detail.Classes},
		{"Associations", detail.Associations},
		{"Values", detail.Values},
		{"Configuration", detail.Configurations},
		{"Scenes", detail.Scenes},
	} {
		lines = append(lines, styledLine{})
		lines = append(lines, section(sec.title, fragment.Lines(sec.html))...)
	}
	if link := strings.TrimSpace(detail.Link); link != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: "docs: " + link, style: styles.Muted})
	}
	return lines
}

// scrollText shows maxRows lines starting at the viewport cursor.
func scrollText(lines []styledLine, vp *uistate.Viewport, maxRows int) []styledLine {
	vp.Clamp(len(lines))
	if maxRows < 0 || len(lines) <= maxRows {
		vp.Cursor = 0
		return lines
	}
	if vp.Cursor > len(lines)-maxRows {
		vp.Cursor = len(lines) - maxRows
	}
	return lines[vp.Cursor : vp.Cursor+maxRows]
}

func (m *Model) rowLines(maxRows int) []styledLine {
	rows := m.visibleRows()
	if len(rows) == 0 {
		msg := "(no nodes)"
		if m.nodeQuery.Text != "" {
			msg = fmt.Sprintf("No matches for %q", m.nodeQuery.Text)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, []string{"no", "name", "level", "readings", "state", "product", "last contact"})
	for _, row := range rows {
		slot := row.slot
		level := ""
		if slot.ControlVisible("node_slide") {
			level = sliderBar(slot.SwitchLevel)
		}
		cells = append(cells, []string{
			slot.NodeID,
			flatten(slot.Name),
			level,
			flatten(slot.Readings),
			flatten(slot.State),
			flatten(slot.Product),
			flatten(slot.LastContact),
		})
	}
	formatted := table.FormatWidth(cells, []table.Alignment{table.AlignRight}, m.tableWidth())
	return m.tableLines(formatted, &m.rows, maxRows)
}

func (m *Model) listLines(list *uistate.List, headers []string, maxRows int) []styledLine {
	items := list.Items()
	if len(items) == 0 {
		msg := "(no entries)"
		if list.Filtered() {
			msg = "(no entries match the filter)"
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	cells := make([][]string, 0, len(items)+1)
	cells = append(cells, headers)
	for _, item := range items {
		row := make([]string, len(list.Columns))
		for i, col := range list.Columns {
			row[i] = flatten(item.Value(col))
		}
		cells = append(cells, row)
	}
	return m.tableLines(table.FormatWidth(cells, nil, m.tableWidth()), &list.Viewport, maxRows)
}

// tableLines renders a header line plus the body rows visible in vp, with
// the cursor row highlighted.
func (m *Model) tableLines(formatted []string, vp *uistate.Viewport, maxRows int) []styledLine {
	header, body := formatted[0], formatted[1:]
	visible := maxRows - 1
	if maxRows < 0 {
		visible = len(body)
	}
	if visible < 1 {
		visible = 1
	}
	vp.EnsureVisible(len(body), visible)
	start := vp.Offset
	end := start + visible
	if end > len(body) {
		end = len(body)
	}
	lines := []styledLine{{text: "  " + header, style: styles.SectionTitle}}
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.buildItemLine(body[idx], idx == vp.Cursor))
	}
	return lines
}

// buildItemLine constructs a single styledLine for a list row, padded so the
// selected row's background spans the container.
func (m *Model) buildItemLine(label string, selected bool) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + label
	if m.width > 0 {
		if pad := m.width - ansi.StringWidth(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

// tableWidth leaves room for the row indicator.
func (m *Model) tableWidth() int {
	if m.width <= 2 {
		return 0
	}
	return m.width - 2
}

func sliderBar(level int) string {
	filled := level * sliderCells / state.SliderMax
	if filled > sliderCells {
		filled = sliderCells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", sliderCells-filled) + fmt.Sprintf(" %3d", level)
}

// flatten renders a server fragment on a single line.
func flatten(html string) string {
	return strings.Join(fragment.Lines(html), " ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

// maxVisibleItems returns how many panel lines fit between the fixed top
// and bottom blocks, or -1 when the height is unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := len(m.topLines("")) + len(m.bottomLines())
	remain := m.height - used
	if remain < 2 {
		return 2
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = ansi.Truncate(text, width-1, "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ansi.Truncate(text, 1, "")
	}
	return ansi.Truncate(text, width-1, "") + "…"
}
