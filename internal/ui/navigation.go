package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/logging/events"
	uistate "github.com/sims-ims/sims-client/internal/ui/state"
	"github.com/sims-ims/sims-client/internal/workspace"
)

func (m *Model) handleOpenTabMsg(msg tea.Msg) tea.Cmd {
	open, ok := msg.(OpenTabMsg)
	if !ok {
		return nil
	}
	req := m.tabs.Open(open.Tab)
	m.syncLists()
	return m.refreshCmd(req)
}

func (m *Model) handleNavigateMsg(msg tea.Msg) tea.Cmd {
	nav, ok := msg.(NavigateMsg)
	if !ok {
		return nil
	}
	req := m.tabs.NavigateTo(nav.Tab)
	m.syncLists()
	return m.refreshCmd(req)
}

func (m *Model) handleCloseTabMsg(msg tea.Msg) tea.Cmd {
	closing, ok := msg.(CloseTabMsg)
	if !ok {
		return nil
	}
	if m.tabs.Close(closing.Tab) {
		delete(m.lists, closing.Tab)
	}
	return nil
}

func (m *Model) handleRefreshMsg(msg tea.Msg) tea.Cmd {
	return m.refreshCmd(m.tabs.Current().Refresh())
}

// cycleTab moves to the neighbouring open tab.
func (m *Model) cycleTab(delta int) tea.Cmd {
	tabs := m.tabs.Tabs()
	idx := m.tabs.Index(m.tabs.Current())
	if idx < 0 || len(tabs) == 0 {
		return nil
	}
	next := (idx + delta + len(tabs)) % len(tabs)
	return m.apply(NavigateMsg{Tab: tabs[next]})
}

// currentList returns the list for the tab on screen, rebuilt from the cache.
func (m *Model) currentList() *uistate.List {
	tab := m.tabs.Current()
	l, ok := m.lists[tab]
	if !ok {
		l = uistate.NewList(nil)
		m.lists[tab] = l
	}
	l.SetRows(m.rowsFor(tab))
	l.EnsureCursorVisible(m.maxVisibleRows())
	return l
}

// syncLists rebuilds the rows of every open tab from the cache.
func (m *Model) syncLists() {
	for _, tab := range m.tabs.Tabs() {
		l, ok := m.lists[tab]
		if !ok {
			l = uistate.NewList(nil)
			m.lists[tab] = l
		}
		l.SetRows(m.rowsFor(tab))
	}
}

func (m *Model) rowsFor(tab workspace.TabID) []uistate.Row {
	switch tab.Kind {
	case workspace.KindAllShelves:
		shelves := m.shelves.Entries()
		rows := make([]uistate.Row, 0, len(shelves))
		for _, s := range shelves {
			rows = append(rows, uistate.Row{ID: s.ShelfID, Cells: []string{s.ShelfID, strconv.FormatUint(uint64(s.SlotCount), 10)}})
		}
		return rows
	case workspace.KindAllItems:
		items := m.items.All()
		rows := make([]uistate.Row, 0, len(items))
		for _, it := range items {
			rows = append(rows, uistate.Row{ID: it.ShelfID + "/" + it.ItemID, Cells: []string{it.ShelfID, it.Name, strconv.FormatUint(uint64(it.Stock), 10), formatPrice(it.Price)}})
		}
		return rows
	default:
		items := m.items.Shelf(tab.ShelfID)
		rows := make([]uistate.Row, 0, len(items))
		for _, it := range items {
			rows = append(rows, uistate.Row{ID: it.ShelfID + "/" + it.ItemID, Cells: []string{it.Name, strconv.FormatUint(uint64(it.Stock), 10), formatPrice(it.Price), it.Description}})
		}
		return rows
	}
}

func columnsFor(tab workspace.TabID) []string {
	switch tab.Kind {
	case workspace.KindAllShelves:
		return []string{"Shelf", "Slots"}
	case workspace.KindAllItems:
		return []string{"Shelf", "Item", "Stock", "Price"}
	default:
		return []string{"Item", "Stock", "Price", "Description"}
	}
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func (m *Model) moveCursor(move func(*uistate.List) bool) {
	l := m.currentList()
	if move(l) {
		events.UI.Cursor(m.tabs.Current().String(), l.Cursor)
	}
	l.EnsureCursorVisible(m.maxVisibleRows())
}

func (m *Model) moveCursorUp()   { m.moveCursor((*uistate.List).MoveCursorUp) }
func (m *Model) moveCursorDown() { m.moveCursor((*uistate.List).MoveCursorDown) }
func (m *Model) moveCursorHome() { m.moveCursor((*uistate.List).MoveCursorHome) }
func (m *Model) moveCursorEnd()  { m.moveCursor((*uistate.List).MoveCursorEnd) }

func (m *Model) moveCursorPageUp() {
	page := m.maxVisibleRows()
	m.moveCursor(func(l *uistate.List) bool { return l.MoveCursorPageUp(page) })
}

func (m *Model) moveCursorPageDown() {
	page := m.maxVisibleRows()
	m.moveCursor(func(l *uistate.List) bool { return l.MoveCursorPageDown(page) })
}

// selectedShelf returns the shelf id under the cursor, if the tab lists
// shelves.
func (m *Model) selectedShelf() (string, bool) {
	if m.tabs.Current().Kind != workspace.KindAllShelves {
		return "", false
	}
	row, ok := m.currentList().Selected()
	if !ok {
		return "", false
	}
	return row.ID, true
}

// selectedItem returns the shelf and item id under the cursor, if the tab
// lists items.
func (m *Model) selectedItem() (string, string, bool) {
	if m.tabs.Current().Kind == workspace.KindAllShelves {
		return "", "", false
	}
	row, ok := m.currentList().Selected()
	if !ok {
		return "", "", false
	}
	// Item ids never contain a slash; shelf ids might.
	i := strings.LastIndexByte(row.ID, '/')
	if i < 0 {
		return "", "", false
	}
	return row.ID[:i], row.ID[i+1:], true
}
