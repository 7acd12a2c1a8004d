package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/edit"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/session"
	"github.com/sims-ims/sims-client/internal/workspace"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	PrevTab  key.Binding
	NextTab  key.Binding
	Shelves  key.Binding
	Items    key.Binding
	Open     key.Binding
	Close    key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Slot     key.Binding
	Logout   key.Binding
	Quit     key.Binding

	Login    key.Binding
	Register key.Binding
	Focus    key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Complete key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
		PrevTab:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev tab")),
		NextTab:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next tab")),
		Shelves:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "shelves")),
		Items:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "items")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open shelf")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close tab")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Slot:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "edit slot")),
		Logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Login:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
		Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "switch field")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete/next")),
		Back:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	}
}

// ShortHelp implements help.KeyMap for the inventory screen.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Open, k.New, k.Refresh, k.Close, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.PrevTab, k.NextTab, k.Shelves, k.Items, k.Open, k.Close},
		{k.Refresh, k.New, k.Edit, k.Slot, k.Logout, k.Quit},
	}
}

func (k keyMap) loginHelp() []key.Binding {
	return []key.Binding{k.Login, k.Register, k.Focus, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Complete, k.Back, k.Cancel}
}

func (m *Model) screenName() string {
	switch m.session.State().(type) {
	case session.Unauthenticated:
		return "login"
	case session.Authenticating:
		return "authenticating"
	}
	if m.form != nil {
		return "edit"
	}
	return "inventory"
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(m.screenName(), keyMsg.String())
	switch m.session.State().(type) {
	case session.Unauthenticated:
		return m.handleLoginKey(keyMsg)
	case session.Authenticating:
		if keyMsg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return nil
	}
	if m.form != nil {
		return m.handleFormKey(keyMsg)
	}
	return m.handleInventoryKey(keyMsg)
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc:
		return tea.Quit
	case key.Matches(msg, m.keys.Login):
		return m.apply(LoginMsg{})
	case key.Matches(msg, m.keys.Register):
		return m.apply(LoginMsg{Register: true})
	case key.Matches(msg, m.keys.Focus):
		m.login.toggleFocus()
		return nil
	}
	change, cmd := m.login.update(msg)
	if change != nil {
		return tea.Batch(m.apply(change), cmd)
	}
	return cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		return m.apply(StopEditingMsg{})
	case key.Matches(msg, m.keys.Submit):
		return m.apply(SubmitEditMsg{})
	case key.Matches(msg, m.keys.Complete):
		if field, ok := m.form.focusedField(); ok && field == edit.FieldShelf {
			if cmd, changed := m.completeShelf(); changed {
				return cmd
			}
		}
		m.form.setFocus(m.form.focus + 1)
		return nil
	case key.Matches(msg, m.keys.Back):
		m.form.setFocus(m.form.focus - 1)
		return nil
	}
	change, cmd := m.form.update(msg)
	if change != nil {
		return tea.Batch(m.apply(change), cmd)
	}
	return cmd
}

func (m *Model) handleInventoryKey(msg tea.KeyMsg) tea.Cmd {
	m.clearInfo()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursorUp()
	case key.Matches(msg, m.keys.Down):
		m.moveCursorDown()
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursorPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursorPageDown()
	case key.Matches(msg, m.keys.Home):
		m.moveCursorHome()
	case key.Matches(msg, m.keys.End):
		m.moveCursorEnd()
	case key.Matches(msg, m.keys.PrevTab):
		return m.cycleTab(-1)
	case key.Matches(msg, m.keys.NextTab):
		return m.cycleTab(1)
	case key.Matches(msg, m.keys.Shelves):
		return m.apply(NavigateMsg{Tab: workspace.AllShelves})
	case key.Matches(msg, m.keys.Items):
		return m.apply(NavigateMsg{Tab: workspace.AllItems})
	case key.Matches(msg, m.keys.Open):
		if shelfID, ok := m.selectedShelf(); ok {
			return m.apply(OpenTabMsg{Tab: workspace.ShelfView(shelfID)})
		}
	case key.Matches(msg, m.keys.Close):
		if current := m.tabs.Current(); current.Closeable() {
			return m.apply(CloseTabMsg{Tab: current})
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.apply(RefreshMsg{})
	case key.Matches(msg, m.keys.New):
		return m.apply(StartEditingMsg{Target: m.newTarget()})
	case key.Matches(msg, m.keys.Edit):
		if target := m.editTarget(); target != nil {
			return m.apply(StartEditingMsg{Target: target})
		}
	case key.Matches(msg, m.keys.Slot):
		if target := m.slotTarget(); target != nil {
			return m.apply(StartEditingMsg{Target: target})
		}
	case key.Matches(msg, m.keys.Logout):
		return m.apply(LogoutMsg{})
	}
	return nil
}

// newTarget picks the creation draft that fits the current tab.
func (m *Model) newTarget() edit.Target {
	current := m.tabs.Current()
	switch current.Kind {
	case workspace.KindAllShelves:
		return edit.NewShelf{Slots: "0"}
	case workspace.KindAllItems:
		return edit.NewItem{Count: "0"}
	default:
		return edit.NewItem{ShelfID: current.ShelfID, Count: "0"}
	}
}

func (m *Model) editTarget() edit.Target {
	if shelfID, ok := m.selectedShelf(); ok {
		return edit.EditShelf{ShelfID: shelfID}
	}
	if shelfID, itemID, ok := m.selectedItem(); ok {
		return edit.EditItem{ShelfID: shelfID, ItemID: itemID}
	}
	return nil
}

// slotTarget edits the slot under the cursor of a shelf view. Slots are
// numbered from 1.
func (m *Model) slotTarget() edit.Target {
	current := m.tabs.Current()
	if current.Kind != workspace.KindShelf {
		return nil
	}
	l := m.currentList()
	if _, ok := l.Selected(); !ok {
		return nil
	}
	return edit.EditSlot{ShelfID: current.ShelfID, SlotID: strconv.Itoa(l.Cursor + 1)}
}
