package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "meshdash.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestErrorAppendsToConfiguredFile(t *testing.T) {
	path := useTempLog(t)
	Error(errors.New("first failure"))
	Error(nil)
	Error(errors.New("second failure"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "first failure") || !strings.Contains(text, "second failure") {
		t.Fatalf("expected both errors in log, got %q", text)
	}
	if strings.Count(text, "\n") != 2 {
		t.Fatalf("expected two log lines, got %q", text)
	}
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	path := useTempLog(t)
	Trace("ignored", map[string]interface{}{"a": 1})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file when tracing is disabled, got %v", err)
	}
}

func TestTraceWritesJSONEntries(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(true)
	Trace("channel.frame", map[string]interface{}{"tag": "STATUS"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected trace file, got %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected JSON entry, got %q (%v)", data, err)
	}
	if entry.Event != "channel.frame" {
		t.Fatalf("expected event channel.frame, got %q", entry.Event)
	}
	if entry.Payload["tag"] != "STATUS" {
		t.Fatalf("expected tag STATUS, got %v", entry.Payload["tag"])
	}
}

func TestWarnAlwaysLogs(t *testing.T) {
	path := useTempLog(t)
	Warn("nav.unknown-tab", errors.New("tab-bogus"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if !strings.Contains(string(data), "warning: ") || !strings.Contains(string(data), "tab-bogus") {
		t.Fatalf("expected warning line, got %q", data)
	}
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	Configure("")
	if got := Path(); got != defaultLogFile {
		t.Fatalf("expected %q, got %q", defaultLogFile, got)
	}
}
