// Package protocol decodes the tagged frames pushed by the dashboard server
// into a closed set of message types.
//
// A frame is `TAG:PAYLOAD`. ACTION, STATUS, EVENT and DRIVER carry opaque HTML
// fragments; CONTROLLER, LOGS, BAD, FAILED and ALL_NODES carry JSON; ONE_NODE
// carries `<nodeId>:<JSON>`.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tag identifies a frame's semantic type.
type Tag string

const (
	TagAction     Tag = "ACTION"
	TagStatus     Tag = "STATUS"
	TagEvent      Tag = "EVENT"
	TagController Tag = "CONTROLLER"
	TagLogs       Tag = "LOGS"
	TagSlow       Tag = "BAD"
	TagFailed     Tag = "FAILED"
	TagAllNodes   Tag = "ALL_NODES"
	TagOneNode    Tag = "ONE_NODE"
	TagDriver     Tag = "DRIVER"
)

var (
	// ErrUnknownTag reports a tag outside the closed set agreed with the server.
	ErrUnknownTag = errors.New("unknown message tag")
	// ErrMalformedPayload reports a payload that does not match its tag's shape.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Message is implemented by every decoded frame type.
type Message interface {
	Tag() Tag
	isMessage()
}

// Action replaces the activity region.
type Action struct{ HTML string }

// Status replaces the status line.
type Status struct{ HTML string }

// Driver replaces the driver status region.
type Driver struct{ HTML string }

// Event is pushed into the event history.
type Event struct{ Text string }

// Controller replaces the controller sub-regions.
type Controller struct{ Info ControllerInfo }

// Logs replaces the driver log list.
type Logs struct{ Entries []LogEntry }

// Slow replaces the slow-transaction list.
type Slow struct{ Entries []HistoryEntry }

// Failed replaces the failed-transaction list.
type Failed struct{ Entries []HistoryEntry }

// AllNodes is the ordered snapshot for the row pool.
type AllNodes struct{ Nodes []NodeSnapshot }

// OneNode is the detail update for a single node.
type OneNode struct {
	NodeID string
	Detail NodeDetail
}

func (Action) Tag() Tag     { return TagAction }
func (Status) Tag() Tag     { return TagStatus }
func (Driver) Tag() Tag     { return TagDriver }
func (Event) Tag() Tag      { return TagEvent }
func (Controller) Tag() Tag { return TagController }
func (Logs) Tag() Tag       { return TagLogs }
func (Slow) Tag() Tag       { return TagSlow }
func (Failed) Tag() Tag     { return TagFailed }
func (AllNodes) Tag() Tag   { return TagAllNodes }
func (OneNode) Tag() Tag    { return TagOneNode }

func (Action) isMessage()     {}
func (Status) isMessage()     {}
func (Driver) isMessage()     {}
func (Event) isMessage()      {}
func (Controller) isMessage() {}
func (Logs) isMessage()       {}
func (Slow) isMessage()       {}
func (Failed) isMessage()     {}
func (AllNodes) isMessage()   {}
func (OneNode) isMessage()    {}

// Decode converts a tag and its payload into a Message.
func Decode(tag, payload string) (Message, error) {
	switch Tag(tag) {
	case TagAction:
		return Action{HTML: payload}, nil
	case TagStatus:
		return Status{HTML: payload}, nil
	case TagDriver:
		return Driver{HTML: payload}, nil
	case TagEvent:
		return Event{Text: payload}, nil
	case TagController:
		var info ControllerInfo
		if err := decodeJSON(tag, payload, &info); err != nil {
			return nil, err
		}
		return Controller{Info: info}, nil
	case TagLogs:
		var entries []LogEntry
		if err := decodeJSON(tag, payload, &entries); err != nil {
			return nil, err
		}
		return Logs{Entries: entries}, nil
	case TagSlow:
		var entries []HistoryEntry
		if err := decodeJSON(tag, payload, &entries); err != nil {
			return nil, err
		}
		return Slow{Entries: entries}, nil
	case TagFailed:
		var entries []HistoryEntry
		if err := decodeJSON(tag, payload, &entries); err != nil {
			return nil, err
		}
		return Failed{Entries: entries}, nil
	case TagAllNodes:
		nodes, err := decodeNodes(payload)
		if err != nil {
			return nil, err
		}
		return AllNodes{Nodes: nodes}, nil
	case TagOneNode:
		return decodeOneNode(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
}

func decodeJSON(tag, payload string, target interface{}) error {
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, tag, err)
	}
	return nil
}

// decodeNodes accepts the ordered array form and, for older servers, an
// object keyed by node number which is ordered numerically.
func decodeNodes(payload string) ([]NodeSnapshot, error) {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") {
		var keyed map[string]NodeSnapshot
		if err := decodeJSON(string(TagAllNodes), trimmed, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return nodeKeyLess(keys[i], keys[j]) })
		nodes := make([]NodeSnapshot, 0, len(keys))
		for _, k := range keys {
			node := keyed[k]
			if node.No == "" {
				node.No = NodeID(k)
			}
			nodes = append(nodes, node)
		}
		return nodes, nil
	}
	var nodes []NodeSnapshot
	if err := decodeJSON(string(TagAllNodes), trimmed, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func nodeKeyLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func decodeOneNode(payload string) (Message, error) {
	colon := strings.IndexByte(payload, ':')
	if colon < 0 {
		return nil, fmt.Errorf("%w: %s: missing node id", ErrMalformedPayload, TagOneNode)
	}
	id := payload[:colon]
	var detail NodeDetail
	if err := decodeJSON(string(TagOneNode), payload[colon+1:], &detail); err != nil {
		return nil, err
	}
	if detail.No == "" {
		detail.No = NodeID(id)
	}
	return OneNode{NodeID: id, Detail: detail}, nil
}
