package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/ui"
)

// closeGrace bounds how long shutdown waits for an in-flight call to hand
// the connection back.
const closeGrace = time.Second

// Config describes user-provided application options.
type Config struct {
	Server          string
	Width           int
	Height          int
	ShowFooter      bool
	Verbose         bool
	RefreshInterval time.Duration
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	guard := conn.New(cfg.Server, rpc.DialHTTP)
	defer closeGuard(guard)

	watcher := backend.NewWatcher(cfg.RefreshInterval)
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Guard:      guard,
		Watcher:    watcher,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}

func closeGuard(guard *conn.Guard) {
	done := make(chan struct{})
	go func() {
		_ = guard.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(closeGrace):
	}
}
