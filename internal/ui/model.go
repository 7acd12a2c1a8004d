package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/data/dispatcher"
	"github.com/sims-ims/sims-client/internal/edit"
	"github.com/sims-ims/sims-client/internal/session"
	"github.com/sims-ims/sims-client/internal/state"
	"github.com/sims-ims/sims-client/internal/theme"
	"github.com/sims-ims/sims-client/internal/ui/command"
	uistate "github.com/sims-ims/sims-client/internal/ui/state"
	"github.com/sims-ims/sims-client/internal/workspace"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	// Guard provides the service connection. Required.
	Guard conn.Borrower
	// Watcher triggers periodic refreshes. Optional.
	Watcher *backend.Watcher
}

// Model implements the Bubble Tea model for the inventory client. Update is
// the only place application state changes.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	pending     int

	handlers map[reflect.Type]msgHandler

	bus     *command.Bus
	guard   conn.Borrower
	backend *backend.Watcher

	session    *session.Manager
	tabs       *workspace.Registry
	edits      *edit.Model
	shelves    state.ShelfStore
	items      state.ItemStore
	dispatcher *dispatcher.Dispatcher
	lists      map[workspace.TabID]*uistate.List

	login   *loginForm
	form    *editForm
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel initialises the UI state on the login screen.
func NewModel(opts Options) *Model {
	shelves := state.NewShelfStore()
	items := state.NewItemStore()
	m := &Model{
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		bus:        command.New(),
		guard:      opts.Guard,
		backend:    opts.Watcher,
		session:    session.NewManager(),
		tabs:       workspace.NewRegistry(),
		edits:      edit.NewModel(),
		shelves:    shelves,
		items:      items,
		dispatcher: dispatcher.New(shelves, items),
		lists:      make(map[workspace.TabID]*uistate.List),
		login:      newLoginForm(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Line), spinner.WithStyle(*styles.Spinner)),
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.help.Styles.ShortDesc = *styles.Footer
	m.help.Styles.ShortSeparator = *styles.Footer
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendTick(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):    m.handleSpinnerTickMsg,
		reflect.TypeOf(UsernameChangedMsg{}): m.handleUsernameChangedMsg,
		reflect.TypeOf(PasswordChangedMsg{}): m.handlePasswordChangedMsg,
		reflect.TypeOf(LoginMsg{}):           m.handleLoginMsg,
		reflect.TypeOf(AuthenticatedMsg{}):   m.handleAuthenticatedMsg,
		reflect.TypeOf(LogoutMsg{}):          m.handleLogoutMsg,
		reflect.TypeOf(OpenTabMsg{}):         m.handleOpenTabMsg,
		reflect.TypeOf(NavigateMsg{}):        m.handleNavigateMsg,
		reflect.TypeOf(CloseTabMsg{}):        m.handleCloseTabMsg,
		reflect.TypeOf(RefreshMsg{}):         m.handleRefreshMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendTickMsg{}):     m.handleBackendTickMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
		reflect.TypeOf(StartEditingMsg{}):    m.handleStartEditingMsg,
		reflect.TypeOf(StopEditingMsg{}):     m.handleStopEditingMsg,
		reflect.TypeOf(FieldChangedMsg{}):    m.handleFieldChangedMsg,
		reflect.TypeOf(SubmitEditMsg{}):      m.handleSubmitEditMsg,
		reflect.TypeOf(mutationResultMsg{}):  m.handleMutationResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// apply routes msg through its handler immediately. Key handling uses it to
// translate keystrokes into domain messages within the same Update step.
func (m *Model) apply(msg tea.Msg) tea.Cmd {
	if handler := m.handlerFor(msg); handler != nil {
		return handler(msg)
	}
	return nil
}

// Session exposes the session state for rendering and tests.
func (m *Model) Session() session.State {
	return m.session.State()
}

// Username returns the username draft or the logged in user.
func (m *Model) Username() string {
	return m.session.Username()
}

// Tabs exposes the workspace registry.
func (m *Model) Tabs() *workspace.Registry {
	return m.tabs
}

// Draft returns the live edit draft, or nil.
func (m *Model) Draft() edit.Target {
	return m.edits.Current()
}

// Shelves returns the cached shelf list.
func (m *Model) Shelves() state.ShelfStore {
	return m.shelves
}

// Items returns the cached item mapping.
func (m *Model) Items() state.ItemStore {
	return m.items
}

// Status returns the error shown on the status line.
func (m *Model) Status() string {
	return m.errMsg
}
