package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionForm collects the arguments of an action, one input per argument,
// pre-filled with the argument defaults.
type ActionForm struct {
	action actions.Action
	nodeID string
	inputs []textinput.Model
	focus  int
	err    string
}

func NewActionForm(a actions.Action, nodeID string) *ActionForm {
	f := &ActionForm{action: a, nodeID: nodeID}
	for _, arg := range a.Args {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = arg.Name
		ti.CharLimit = 128
		ti.SetValue(arg.Default)
		ti.CursorEnd()
		f.inputs = append(f.inputs, ti)
	}
	f.setFocus(0)
	return f
}

func (f *ActionForm) Action() actions.Action { return f.action }
func (f *ActionForm) NodeID() string         { return f.nodeID }
func (f *ActionForm) Error() string          { return f.err }
func (f *ActionForm) Focused() int           { return f.focus }

func (f *ActionForm) Title() string {
	if f.action.Scope == actions.ScopeNode {
		return fmt.Sprintf("%s (node %s)", f.action.Label, f.nodeID)
	}
	return f.action.Label
}

func (f *ActionForm) Help() string {
	return "tab/enter next · shift+tab previous · enter on last submits · esc cancel"
}

// Values returns the trimmed argument values in path order.
func (f *ActionForm) Values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

// InputLines renders one labelled line per argument.
func (f *ActionForm) InputLines() []string {
	lines := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = "› "
		}
		lines[i] = fmt.Sprintf("%s%s: %s", marker, f.action.Args[i].Label, in.View())
	}
	return lines
}

func (f *ActionForm) setFocus(idx int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if idx < 0 {
		idx = len(f.inputs) - 1
	}
	if idx >= len(f.inputs) {
		idx = 0
	}
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *ActionForm) validate() string {
	for i, value := range f.Values() {
		if value == "" {
			return fmt.Sprintf("%s is required", f.action.Args[i].Label)
		}
	}
	return ""
}

// Update returns the command to run and whether the form was submitted or
// cancelled.
func (f *ActionForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "esc":
			events.Action.Cancel(f.action.ID)
			return nil, false, true
		case "tab":
			return f.setFocus(f.focus + 1), false, false
		case "shift+tab":
			return f.setFocus(f.focus - 1), false, false
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return f.setFocus(f.focus + 1), false, false
			}
			if err := f.validate(); err != "" {
				f.err = err
				events.Action.Error(fmt.Errorf("%s: %s", f.action.ID, err))
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		case "ctrl+u":
			if len(f.inputs) > 0 && f.inputs[f.focus].Value() != "" {
				f.inputs[f.focus].SetValue("")
				f.inputs[f.focus].CursorStart()
			}
			return nil, false, false
		}
	}
	if len(f.inputs) == 0 {
		return nil, false, false
	}
	updated, cmd := f.inputs[f.focus].Update(msg)
	f.inputs[f.focus] = updated
	return cmd, false, false
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.mode != ModeForm || m.form == nil {
		return false, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		// Blink and paste messages belong to the inputs; everything else
		// still goes through the regular handlers.
		cmd, _, _ := m.form.Update(msg)
		return false, cmd
	}
	if key.String() == "ctrl+c" {
		return true, tea.Quit
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form = nil
		m.mode = ModeBrowse
		return true, cmd
	}
	if done {
		form := m.form
		m.form = nil
		m.mode = ModeBrowse
		return true, m.fire(form.Action(), form.NodeID(), form.Values())
	}
	return true, cmd
}

func (m *Model) viewFormWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, m.form.Title(), "")
	lines = append(lines, m.form.InputLines()...)
	if err := m.form.Error(); err != "" {
		lines = append(lines, "", styles.Error.Render(err))
	}
	lines = append(lines, "", m.form.Help())
	return strings.Join(lines, "\n")
}
