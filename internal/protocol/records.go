package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NodeID identifies a node (or one channel of a multi-channel node). The
// server sends it as a JSON number; strings are accepted as well.
type NodeID string

func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("node id: %w", err)
	}
	*id = NodeID(n.String())
	return nil
}

func (id NodeID) String() string { return string(id) }

// Level is a multilevel switch position. Missing or null values decode to 0
// and fractional values are rounded.
type Level int

func (l *Level) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		*l = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = 0
			return nil
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("switch level: %w", err)
	}
	*l = Level(math.Round(f))
	return nil
}

// NodeSnapshot is one row of the all-nodes view as rendered by the server.
// The display fields are HTML fragments.
type NodeSnapshot struct {
	No          NodeID          `json:"no"`
	Name        string          `json:"name"`
	SwitchLevel Level           `json:"switch_level"`
	Readings    string          `json:"readings"`
	State       string          `json:"state"`
	Product     string          `json:"product"`
	LastContact string          `json:"last_contact"`
	Controls    map[string]bool `json:"controls"`
}

// NodeDetail is the single-node view: the row fields plus the detail sections.
type NodeDetail struct {
	NodeSnapshot
	Basics         string `json:"basics"`
	Classes        string `json:"classes"`
	Associations   string `json:"associations"`
	Values         string `json:"values"`
	Configurations string `json:"configurations"`
	Scenes         string `json:"scenes"`
	Link           string `json:"link"`
}

// ControllerInfo carries the three controller sub-regions.
type ControllerInfo struct {
	Basics string `json:"controller_basics"`
	Routes string `json:"controller_routes"`
	APIs   string `json:"controller_apis"`
}

// LogEntry is one raw driver message: timestamp, comment (completion),
// direction and the prettified message.
type LogEntry struct {
	Time      string `json:"t"`
	Comment   string `json:"c"`
	Direction string `json:"d"`
	Message   string `json:"m"`
}

// HistoryEntry is one slow or failed driver transaction: duration flag,
// start timestamp and message.
type HistoryEntry struct {
	Duration string `json:"d"`
	Time     string `json:"t"`
	Message  string `json:"m"`
}
