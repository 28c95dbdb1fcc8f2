package events

import "github.com/atomicstack/meshdash/internal/logging"

type RequestTracer struct{}

var Request = RequestTracer{}

func (RequestTracer) Queue(path string) {
	logging.Trace("request.queue", map[string]interface{}{"path": path})
}

func (RequestTracer) Sent(path string, status int) {
	logging.Trace("request.sent", map[string]interface{}{"path": path, "status": status})
}

func (RequestTracer) Dropped(path string) {
	logging.Trace("request.dropped", map[string]interface{}{"path": path})
}
