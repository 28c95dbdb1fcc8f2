package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/meshdash/internal/app"
	"github.com/atomicstack/meshdash/internal/backend"
	"github.com/atomicstack/meshdash/internal/config"
	"github.com/atomicstack/meshdash/internal/logging"
	"github.com/atomicstack/meshdash/internal/logging/events"
	"golang.org/x/term"
)

var errNoTerminal = errors.New("meshdash needs a terminal on stdout")

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	terminal := probeTerminal()
	events.App.Start(startupTracePayload(cfg, terminal))

	err := requireTerminal(terminal)
	if err == nil {
		err = app.Run(cfg.App)
	}
	events.App.Stop(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, terminal terminalReport) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  cfg,
		"actions": len(cfg.App.Actions),
		"tty":     terminal,
	}
	if endpoint, err := backend.Endpoint(cfg.App.Server); err == nil {
		payload["endpoint"] = endpoint
	} else {
		payload["endpointError"] = err.Error()
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	return payload
}

type terminalReport struct {
	Size        *terminalSize     `json:"size,omitempty"`
	Descriptors []descriptorProbe `json:"descriptors"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type descriptorProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Error      string `json:"error,omitempty"`
}

// probeTerminal reports which standard descriptors are terminals and the
// first size one of them answers with.
func probeTerminal() terminalReport {
	descriptors := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	var report terminalReport
	for _, d := range descriptors {
		probe := descriptorProbe{Name: d.name}
		fd := int(d.file.Fd())
		if fd >= 0 && term.IsTerminal(fd) {
			probe.IsTerminal = true
			width, height, err := term.GetSize(fd)
			switch {
			case err != nil:
				probe.Error = err.Error()
			case report.Size == nil:
				report.Size = &terminalSize{Source: d.name, Width: width, Height: height}
			}
		}
		report.Descriptors = append(report.Descriptors, probe)
	}
	return report
}

// requireTerminal fails when stdout cannot host the full-screen view.
func requireTerminal(report terminalReport) error {
	for _, probe := range report.Descriptors {
		if probe.Name == "stdout" && probe.IsTerminal {
			return nil
		}
	}
	return errNoTerminal
}
