package events

import "github.com/atomicstack/meshdash/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Cursor(view string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"view": view, "cursor": cursor})
}

func (UITracer) Slider(node string, level int) {
	logging.Trace("ui.slider", map[string]interface{}{"node": node, "level": level})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Prompt(id string, args []string) {
	logging.Trace("action.prompt", map[string]interface{}{"id": id, "args": args})
}

func (ActionTracer) Cancel(id string) {
	logging.Trace("action.cancel", map[string]interface{}{"id": id})
}

func (FilterTracer) Cleared(view string) {
	logging.Trace("filter.clear", map[string]interface{}{"view": view})
}

func (FilterTracer) Changed(view, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"view": view, "filter": filter})
}

func (FilterTracer) Invalid(view, filter string, err error) {
	logging.Trace("filter.invalid", map[string]interface{}{"view": view, "filter": filter, "error": err.Error()})
}

func (FilterTracer) Cursor(view string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"view": view, "cursor": pos})
}

func (CommandTracer) Queue(id, path string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "path": path})
}

func (CommandTracer) Skip(id string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id})
}

func (CommandTracer) Sent(id, path string) {
	logging.Trace("command.sent", map[string]interface{}{"id": id, "path": path})
}
