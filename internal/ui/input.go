package ui

import (
	"strings"
	"unicode"

	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/nav"
	uistate "github.com/atomicstack/meshdash/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(q *uistate.Query, before int) {
	if q == nil {
		return
	}
	if before != q.Pos() {
		m.filterCursorDirty = true
	}
}

// activeQuery returns the filter text owned by tab, nil when the tab has
// none.
func (m *Model) activeQuery(tab nav.Tab) *uistate.Query {
	switch tab {
	case nav.TabAllNodes:
		return &m.nodeQuery
	case nav.TabLogs:
		return &m.logQuery
	}
	return nil
}

func (m *Model) startFilter() {
	tab := m.navigator.Tab()
	if m.activeQuery(tab) == nil {
		m.setInfo("Filtering works on the All Nodes and Logs tabs")
		return
	}
	m.filterTab = tab
	m.mode = ModeFilter
	m.filterCursorDirty = true
}

func (m *Model) stopFilter() {
	m.mode = ModeBrowse
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		m.stopFilter()
		return nil
	case "esc":
		if q := m.activeQuery(m.filterTab); q != nil && q.Clear() {
			m.queryChanged()
		}
		m.stopFilter()
		return nil
	}
	m.handleTextInput(msg)
	return nil
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.activeQuery(m.filterTab)
	if current == nil {
		return false
	}
	view := m.filterTab.ID()
	before := current.Pos()
	switch msg.String() {
	case "ctrl+u":
		if !current.Clear() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.queryChanged()
		return true
	case "ctrl+w":
		if !current.DeleteWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.queryChanged()
		return true
	case "ctrl+a":
		if !current.MoveStart() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	case "ctrl+e":
		if !current.MoveEnd() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	case "alt+b":
		if !current.MoveWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	case "alt+f":
		if !current.MoveWordForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !current.DeleteRuneBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.queryChanged()
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		if !current.Insert(string(msg.Runes)) {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.queryChanged()
		return true
	case tea.KeySpace:
		if !current.Insert(" ") {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.queryChanged()
		return true
	case tea.KeyLeft:
		if !current.MoveRuneBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	case tea.KeyRight:
		if !current.MoveRuneForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(view, current.Cursor)
		return true
	}
	return false
}

func (m *Model) queryChanged() {
	switch m.filterTab {
	case nav.TabLogs:
		m.applyLogFilter()
	case nav.TabAllNodes:
		m.rows = uistate.Viewport{}
		m.rows.Cursor = m.bestRow()
		if m.nodeQuery.Text == "" {
			events.Filter.Cleared(nav.TabAllNodes.ID())
		} else {
			events.Filter.Changed(nav.TabAllNodes.ID(), m.nodeQuery.Text)
		}
	}
}

// bestRow picks the quick-find row whose node number equals the query, or
// else the best name match.
func (m *Model) bestRow() int {
	rows := m.visibleRows()
	query := strings.TrimSpace(m.nodeQuery.Text)
	labels := make([]string, len(rows))
	for i, row := range rows {
		if query != "" && row.slot.NodeID == query {
			return i
		}
		labels[i] = row.slot.Name
	}
	if idx := uistate.BestMatch(labels, query); idx > 0 {
		return idx
	}
	return 0
}

// applyLogFilter installs the log query as a regular expression. An invalid
// pattern is reported and the previous filter stays.
func (m *Model) applyLogFilter() {
	if err := m.dispatcher.SetLogFilter(m.logQuery.Text); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) filterPrompt() (string, *lipgloss.Style) {
	current := m.activeQuery(m.navigator.Tab())
	if current == nil {
		return "", nil
	}
	editing := m.mode == ModeFilter && m.filterTab == m.navigator.Tab()
	if !editing && current.Text == "" {
		return "", nil
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	label := "find » "
	placeholder := "(type a node name or number)"
	if m.navigator.Tab() == nav.TabLogs {
		label = "regex » "
		placeholder = "(type a pattern for the message column)"
	}
	prompt := label
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	if !editing {
		return prompt + render(styles.Filter, current.Text), nil
	}
	text := current.Text
	if text == "" {
		runes := []rune(placeholder)
		caretRune := string(runes[0])
		rest := string(runes[1:])
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(caretRune)
		return prompt + caret + render(styles.FilterPlaceholder, rest), nil
	}
	runes := []rune(text)
	pos := current.Pos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	if pos < len(runes) {
		caretRune = string(runes[pos])
	}
	caret := m.renderFilterCursor(caretRune)
	var after string
	if pos < len(runes) {
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + caret + after, nil
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
