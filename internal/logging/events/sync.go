package events

import "github.com/atomicstack/meshdash/internal/logging"

type SyncTracer struct{}

var Sync = SyncTracer{}

func (SyncTracer) Rows(visible, capacity int) {
	logging.Trace("sync.rows", map[string]interface{}{"visible": visible, "capacity": capacity})
}

func (SyncTracer) RowsTruncated(received, capacity int) {
	logging.Trace("sync.rows.truncated", map[string]interface{}{"received": received, "capacity": capacity})
}

func (SyncTracer) Node(node, selected string, detail, row bool) {
	logging.Trace("sync.node", map[string]interface{}{
		"node":     node,
		"selected": selected,
		"detail":   detail,
		"row":      row,
	})
}

func (SyncTracer) List(name string, entries int, filtered bool) {
	logging.Trace("sync.list", map[string]interface{}{"list": name, "entries": entries, "filtered": filtered})
}
