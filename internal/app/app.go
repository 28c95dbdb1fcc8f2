package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/backend"
	"github.com/atomicstack/meshdash/internal/request"
	"github.com/atomicstack/meshdash/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Server     string
	Fragment   string
	Rows       int
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Actions    []actions.Action
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	endpoint, err := backend.Endpoint(cfg.Server)
	if err != nil {
		return fmt.Errorf("resolve updates endpoint: %w", err)
	}
	sender := request.NewHTTPSender(cfg.Server, nil)
	defer func() {
		sender.Stop()
		sender.Wait()
	}()
	channel := backend.Open(endpoint, nil)
	defer func() {
		channel.Stop()
		channel.Wait()
	}()

	model := ui.NewModel(ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Channel:    channel,
		Sender:     sender,
		Fragment:   cfg.Fragment,
		Rows:       cfg.Rows,
		Actions:    cfg.Actions,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
