// Package workspace keeps the set of open tabs and the navigation history
// that decides which one is on screen.
package workspace

import (
	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/logging/events"
)

// TabKind distinguishes the three kinds of tab.
type TabKind int

const (
	KindAllShelves TabKind = iota
	KindAllItems
	KindShelf
)

// TabID identifies a tab. ShelfID is only set for KindShelf.
type TabID struct {
	Kind    TabKind
	ShelfID string
}

var (
	AllShelves = TabID{Kind: KindAllShelves}
	AllItems   = TabID{Kind: KindAllItems}
)

// ShelfView identifies the tab showing a single shelf.
func ShelfView(shelfID string) TabID {
	return TabID{Kind: KindShelf, ShelfID: shelfID}
}

// Closeable reports whether the tab may be closed.
func (t TabID) Closeable() bool {
	return t.Kind == KindShelf
}

func (t TabID) String() string {
	switch t.Kind {
	case KindAllShelves:
		return "Shelves"
	case KindAllItems:
		return "Items"
	default:
		return "Shelf " + t.ShelfID
	}
}

// Refresh returns the fetch that brings the tab's data up to date.
func (t TabID) Refresh() backend.Request {
	switch t.Kind {
	case KindAllShelves:
		return backend.Request{Kind: backend.KindShelves}
	case KindAllItems:
		return backend.Request{Kind: backend.KindItems}
	default:
		return backend.Request{Kind: backend.KindItems, ShelfID: t.ShelfID}
	}
}

// Registry holds open tabs in insertion order plus the navigation stack.
// Every entry on the stack is an open tab.
type Registry struct {
	tabs  []TabID
	stack []TabID
}

// NewRegistry returns a registry with the two permanent tabs open.
func NewRegistry() *Registry {
	return &Registry{tabs: []TabID{AllShelves, AllItems}}
}

// Open adds tab when absent and navigates to it.
func (r *Registry) Open(tab TabID) backend.Request {
	inserted := false
	if !r.contains(tab) {
		r.tabs = append(r.tabs, tab)
		inserted = true
	}
	events.Tab.Open(tab.String(), inserted)
	return r.NavigateTo(tab)
}

// NavigateTo pushes tab and returns the refresh it needs. Tabs that are not
// open are opened first.
func (r *Registry) NavigateTo(tab TabID) backend.Request {
	if !r.contains(tab) {
		return r.Open(tab)
	}
	r.stack = append(r.stack, tab)
	events.Tab.Navigate(tab.String(), len(r.stack))
	return tab.Refresh()
}

// Close removes a shelf tab and every stack entry referring to it. The
// permanent tabs cannot be closed. It reports whether anything changed.
func (r *Registry) Close(tab TabID) bool {
	if !tab.Closeable() || !r.contains(tab) {
		return false
	}
	tabs := r.tabs[:0]
	for _, t := range r.tabs {
		if t != tab {
			tabs = append(tabs, t)
		}
	}
	r.tabs = tabs

	removed := 0
	stack := r.stack[:0]
	for _, t := range r.stack {
		if t == tab {
			removed++
			continue
		}
		stack = append(stack, t)
	}
	r.stack = stack
	events.Tab.Close(tab.String(), removed)
	return true
}

// Current is the tab on screen.
func (r *Registry) Current() TabID {
	if len(r.stack) == 0 {
		return AllShelves
	}
	return r.stack[len(r.stack)-1]
}

// Tabs returns the open tabs in order.
func (r *Registry) Tabs() []TabID {
	return append([]TabID(nil), r.tabs...)
}

// Stack returns a copy of the navigation stack, oldest first.
func (r *Registry) Stack() []TabID {
	return append([]TabID(nil), r.stack...)
}

// Index returns the position of tab in Tabs, or -1.
func (r *Registry) Index(tab TabID) int {
	for i, t := range r.tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

func (r *Registry) contains(tab TabID) bool {
	return r.Index(tab) >= 0
}
