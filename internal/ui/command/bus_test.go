package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{ value int }

func TestExecuteRunsRequest(t *testing.T) {
	bus := New()
	cmd := bus.Execute(Request{ID: "test", Label: "run", Run: func() tea.Msg { return doneMsg{value: 7} }})
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(doneMsg)
	if !ok || msg.value != 7 {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestExecuteWithoutRun(t *testing.T) {
	cmd := New().Execute(Request{ID: "test", Label: "skip"})
	if msg := cmd(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
}
