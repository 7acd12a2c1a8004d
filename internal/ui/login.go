package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/session"
	uistate "github.com/sims-ims/sims-client/internal/ui/state"
	"github.com/sims-ims/sims-client/internal/workspace"
)

type loginField int

const (
	loginUsername loginField = iota
	loginPassword
)

// loginForm renders the credential drafts. The session manager owns the
// values; the inputs only mirror them.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    loginField
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Input != nil {
		ti.TextStyle = styles.Input.Copy()
	}
	if styles.Placeholder != nil {
		ti.PlaceholderStyle = styles.Placeholder.Copy()
	}
	return ti
}

func newLoginForm() *loginForm {
	f := &loginForm{
		username: newTextInput("username"),
		password: newTextInput("password"),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	f.username.Focus()
	return f
}

func (f *loginForm) setFocus(field loginField) {
	f.focus = field
	if field == loginUsername {
		f.username.Focus()
		f.password.Blur()
		return
	}
	f.password.Focus()
	f.username.Blur()
}

func (f *loginForm) toggleFocus() {
	if f.focus == loginUsername {
		f.setFocus(loginPassword)
		return
	}
	f.setFocus(loginUsername)
}

// reset mirrors the drafts held by the session.
func (f *loginForm) reset(username, password string) {
	f.username.SetValue(username)
	f.password.SetValue(password)
	f.setFocus(loginUsername)
}

// update feeds a key to the focused input and returns the domain message for
// any resulting change.
func (f *loginForm) update(msg tea.KeyMsg) (tea.Msg, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == loginUsername {
		before := f.username.Value()
		f.username, cmd = f.username.Update(msg)
		if after := f.username.Value(); after != before {
			return UsernameChangedMsg{Value: after}, cmd
		}
		return nil, cmd
	}
	before := f.password.Value()
	f.password, cmd = f.password.Update(msg)
	if after := f.password.Value(); after != before {
		return PasswordChangedMsg{Value: after}, cmd
	}
	return nil, cmd
}

func (m *Model) handleUsernameChangedMsg(msg tea.Msg) tea.Cmd {
	change, ok := msg.(UsernameChangedMsg)
	if !ok {
		return nil
	}
	if m.session.SetUsername(change.Value) && m.login.username.Value() != change.Value {
		m.login.username.SetValue(change.Value)
	}
	return nil
}

func (m *Model) handlePasswordChangedMsg(msg tea.Msg) tea.Cmd {
	change, ok := msg.(PasswordChangedMsg)
	if !ok {
		return nil
	}
	if m.session.SetPassword(change.Value) && m.login.password.Value() != change.Value {
		m.login.password.SetValue(change.Value)
	}
	return nil
}

func (m *Model) handleLoginMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(LoginMsg)
	if !ok {
		return nil
	}
	attempt, ok := m.session.Begin(req.Register)
	if !ok {
		return nil
	}
	m.login.password.SetValue("")
	m.errMsg = ""
	guard := m.guard
	label := "login " + attempt.Username
	if attempt.Register {
		label = "register and login " + attempt.Username
	}
	loginCmd := m.launch("session.login", label, func() tea.Msg {
		token, err := session.Login(context.Background(), guard, attempt)
		return AuthenticatedMsg{Token: token, Err: err}
	})
	return tea.Batch(loginCmd, m.spinner.Tick)
}

func (m *Model) handleAuthenticatedMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(AuthenticatedMsg)
	if !ok {
		return nil
	}
	m.settle()
	if !m.session.Resolve(result.Token, result.Err) {
		return nil
	}
	if result.Err != nil {
		events.Action.Error(result.Err)
		m.login.reset(m.session.Username(), "")
		return nil
	}
	cmds := []tea.Cmd{m.refreshCmd(backend.Request{Kind: backend.KindShelves})}
	if current := m.tabs.Current(); current != workspace.AllShelves {
		cmds = append(cmds, m.refreshCmd(current.Refresh()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleLogoutMsg(msg tea.Msg) tea.Cmd {
	if _, ok := m.session.State().(session.Authenticated); !ok {
		return nil
	}
	m.session.Logout()
	m.edits.Stop()
	m.form = nil
	m.tabs = workspace.NewRegistry()
	m.shelves.SetEntries(nil)
	m.items.ReplaceAll(nil)
	m.lists = make(map[workspace.TabID]*uistate.List)
	m.errMsg = ""
	m.forceClearInfo()
	m.login.reset("", "")
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	if _, authenticating := m.session.State().(session.Authenticating); !authenticating {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}
