package events

import "github.com/atomicstack/meshdash/internal/logging"

type NavTracer struct{}

type NavCause string

const (
	NavCauseSelect NavCause = "select"
	NavCauseLoad   NavCause = "load"
	NavCausePop    NavCause = "pop"
	NavCauseResync NavCause = "resync"
)

var Nav = NavTracer{}

func (NavTracer) Transition(cause NavCause, tab, node, fragment string) {
	logging.Trace("nav.transition", map[string]interface{}{
		"cause":    string(cause),
		"tab":      tab,
		"node":     node,
		"fragment": fragment,
	})
}

func (NavTracer) History(direction string, fragment string) {
	logging.Trace("nav.history", map[string]interface{}{"direction": direction, "fragment": fragment})
}
