package events

import "github.com/atomicstack/meshdash/internal/logging"

type ChannelTracer struct{}

var Channel = ChannelTracer{}

func (ChannelTracer) Dial(endpoint string) {
	logging.Trace("channel.dial", map[string]interface{}{"endpoint": endpoint})
}

func (ChannelTracer) Connected(endpoint string) {
	logging.Trace("channel.connected", map[string]interface{}{"endpoint": endpoint})
}

func (ChannelTracer) Frame(tag string, size int) {
	logging.Trace("channel.frame", map[string]interface{}{"tag": tag, "size": size})
}

func (ChannelTracer) Dropped(tag string, reason string) {
	logging.Trace("channel.dropped", map[string]interface{}{"tag": tag, "reason": reason})
}

func (ChannelTracer) Failed(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("channel.failed", payload)
}

func (ChannelTracer) Closed(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("channel.closed", payload)
}
