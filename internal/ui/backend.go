package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/ui/command"
)

func waitForBackendTick(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		tick, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendTickMsg{tick: tick}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendTickMsg struct {
	tick backend.Tick
}

type backendDoneMsg struct{}

// launch hands run to the command bus and counts it as in flight until its
// result comes back through Update.
func (m *Model) launch(id, label string, run func() tea.Msg) tea.Cmd {
	m.pending++
	return m.bus.Execute(command.Request{ID: id, Label: label, Run: run})
}

func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
}

// refreshCmd fetches req in the background. Nothing is fetched without a
// logged in session.
func (m *Model) refreshCmd(req backend.Request) tea.Cmd {
	creds, ok := m.session.Credentials()
	if !ok {
		return nil
	}
	events.Cache.Refresh(req.Kind.String(), req.ShelfID)
	guard := m.guard
	label := req.Kind.String()
	if req.ShelfID != "" {
		label = fmt.Sprintf("%s of %s", req.Kind, req.ShelfID)
	}
	return m.launch("cache.refresh", label, func() tea.Msg {
		return backendEventMsg{event: backend.Fetch(context.Background(), guard, creds, req)}
	})
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.settle()
	m.dispatcher.Handle(eventMsg.event)
	m.syncLists()
	return nil
}

func (m *Model) handleBackendTickMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(backendTickMsg); !ok {
		return nil
	}
	cmd := m.refreshCmd(m.tabs.Current().Refresh())
	if m.backend == nil {
		return cmd
	}
	wait := waitForBackendTick(m.backend)
	if cmd != nil {
		return tea.Batch(cmd, wait)
	}
	return wait
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}
