package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/logging"
	"github.com/sims-ims/sims-client/internal/logging/events"
)

// handleMutationResultMsg reports the outcome of a create call and refreshes
// the data it touched, whether or not the call succeeded.
func (m *Model) handleMutationResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(mutationResultMsg)
	if !ok {
		return nil
	}
	m.settle()
	if result.err != nil {
		m.errMsg = result.err.Error()
		m.forceClearInfo()
		logging.Error(result.err)
		events.Action.Error(result.err)
	} else {
		m.errMsg = ""
		if m.verbose {
			m.setInfo(result.label)
		} else {
			m.forceClearInfo()
		}
		events.Action.Success(result.label)
	}
	return m.refreshCmd(result.refresh)
}
