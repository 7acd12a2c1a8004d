package ui

import (
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/edit"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/workspace"
)

// UsernameChangedMsg replaces the username draft.
type UsernameChangedMsg struct{ Value string }

// PasswordChangedMsg replaces the password draft.
type PasswordChangedMsg struct{ Value string }

// LoginMsg submits the credential drafts, registering the account first when
// Register is set.
type LoginMsg struct{ Register bool }

// AuthenticatedMsg carries the outcome of a login attempt.
type AuthenticatedMsg struct {
	Token rpc.Token
	Err   error
}

type LogoutMsg struct{}

// OpenTabMsg opens a tab (if needed) and shows it.
type OpenTabMsg struct{ Tab workspace.TabID }

// NavigateMsg shows an open tab.
type NavigateMsg struct{ Tab workspace.TabID }

type CloseTabMsg struct{ Tab workspace.TabID }

// RefreshMsg refetches the data behind the current tab.
type RefreshMsg struct{}

type StartEditingMsg struct{ Target edit.Target }

type StopEditingMsg struct{}

type FieldChangedMsg struct {
	Field edit.Field
	Value string
}

type SubmitEditMsg struct{}

type mutationResultMsg struct {
	label   string
	err     error
	refresh backend.Request
}
