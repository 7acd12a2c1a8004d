// Package session tracks whether the user is logged in and performs the
// credential exchange against the service.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/rpc"
)

// ErrRegistrationFailed marks a failure of the registration step of a
// register-and-login attempt. The cause stays reachable through errors.As.
var ErrRegistrationFailed = errors.New("failed to register")

// State is one of Unauthenticated, Authenticating or Authenticated.
type State interface {
	isState()
	Name() string
}

type Unauthenticated struct {
	PasswordDraft string
	ErrorMessage  string
}

type Authenticating struct {
	Register bool
}

type Authenticated struct {
	Token rpc.Token
}

func (Unauthenticated) isState() {}
func (Authenticating) isState()  {}
func (Authenticated) isState()   {}

func (Unauthenticated) Name() string { return "unauthenticated" }
func (Authenticating) Name() string  { return "authenticating" }
func (Authenticated) Name() string   { return "authenticated" }

// Attempt carries the credentials captured when a login is submitted.
type Attempt struct {
	Username string
	Password string
	Register bool
}

// Manager owns the session state and the username draft.
type Manager struct {
	username string
	state    State
}

func NewManager() *Manager {
	return &Manager{state: Unauthenticated{}}
}

func (m *Manager) State() State {
	return m.state
}

func (m *Manager) Username() string {
	return m.username
}

// SetUsername replaces the username draft. Ignored unless unauthenticated.
func (m *Manager) SetUsername(value string) bool {
	if _, ok := m.state.(Unauthenticated); !ok {
		events.Session.Ignored(m.state.Name(), "username")
		return false
	}
	m.username = value
	return true
}

// SetPassword replaces the password draft as a unit. Ignored unless
// unauthenticated.
func (m *Manager) SetPassword(value string) bool {
	u, ok := m.state.(Unauthenticated)
	if !ok {
		events.Session.Ignored(m.state.Name(), "password")
		return false
	}
	u.PasswordDraft = value
	m.state = u
	return true
}

// Begin moves to Authenticating and returns the credentials to submit. It
// reports false when a login is already underway or complete.
func (m *Manager) Begin(register bool) (Attempt, bool) {
	u, ok := m.state.(Unauthenticated)
	if !ok {
		events.Session.Ignored(m.state.Name(), "submit")
		return Attempt{}, false
	}
	attempt := Attempt{Username: m.username, Password: u.PasswordDraft, Register: register}
	m.state = Authenticating{Register: register}
	events.Session.Submit(m.username, register)
	return attempt, true
}

// Resolve applies the outcome of an attempt started by Begin. Outcomes that
// arrive in any other state are dropped.
func (m *Manager) Resolve(token rpc.Token, err error) bool {
	if _, ok := m.state.(Authenticating); !ok {
		events.Session.Ignored(m.state.Name(), "result")
		return false
	}
	if err != nil {
		msg := Describe(err)
		events.Session.Rejected(m.username, msg)
		m.username = ""
		m.state = Unauthenticated{ErrorMessage: msg}
		return true
	}
	events.Session.Authenticated(m.username)
	m.state = Authenticated{Token: token}
	return true
}

// Logout drops the token and any drafts.
func (m *Manager) Logout() {
	events.Session.Logout(m.username)
	m.username = ""
	m.state = Unauthenticated{}
}

// Credentials returns the identity for authenticated calls.
func (m *Manager) Credentials() (rpc.Credentials, bool) {
	a, ok := m.state.(Authenticated)
	if !ok {
		return rpc.Credentials{}, false
	}
	return rpc.Credentials{Username: m.username, Token: a.Token}, true
}

// Describe renders a login failure for display.
func Describe(err error) string {
	var se *rpc.StatusError
	switch {
	case errors.Is(err, ErrRegistrationFailed):
		return "failed to register"
	case errors.Is(err, conn.ErrNotConnected), rpc.IsFatal(err):
		return "could not connect to server"
	case errors.As(err, &se):
		return fmt.Sprintf("login rejected: %s", se.Error())
	default:
		return fmt.Sprintf("login failed: %v", err)
	}
}

// Login performs the credential exchange for a, registering first when
// requested.
func Login(ctx context.Context, b conn.Borrower, a Attempt) (rpc.Token, error) {
	var token rpc.Token
	err := b.With(ctx, func(ctx context.Context, c rpc.Conn) error {
		if a.Register {
			if err := c.Register(ctx, a.Username, a.Password); err != nil {
				return fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
			}
		}
		t, err := c.Authenticate(ctx, a.Username, a.Password)
		if err != nil {
			return fmt.Errorf("authenticate %s: %w", a.Username, err)
		}
		token = t
		return nil
	})
	return token, err
}
