package edit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/rpc"
)

const (
	msgNotNatural   = "slots must be a natural number"
	msgNoSlots      = "shelf must have at least 1 slot"
	msgSelectShelf  = "you must select a shelf"
	targetNoneLabel = "none"
)

// Mutation is a change to send to the service.
type Mutation interface {
	Run(ctx context.Context, c rpc.Conn, creds rpc.Credentials) error
	String() string
}

type CreateShelf struct {
	ShelfID   string
	SlotCount uint32
}

func (m CreateShelf) Run(ctx context.Context, c rpc.Conn, creds rpc.Credentials) error {
	return c.CreateShelf(ctx, rpc.CreateShelfRequest{ShelfID: m.ShelfID, SlotCount: m.SlotCount, Credentials: creds})
}

func (m CreateShelf) String() string {
	return fmt.Sprintf("create shelf %s (%d slots)", m.ShelfID, m.SlotCount)
}

type CreateItem struct {
	ShelfID  string
	ItemName string
	Count    uint32
}

func (m CreateItem) Run(ctx context.Context, c rpc.Conn, creds rpc.Credentials) error {
	return c.CreateItem(ctx, rpc.CreateItemRequest{ShelfID: m.ShelfID, ItemName: m.ItemName, Count: m.Count, Credentials: creds})
}

func (m CreateItem) String() string {
	return fmt.Sprintf("create item %s x%d on shelf %s", m.ItemName, m.Count, m.ShelfID)
}

// Submission is what a successful Submit asks the caller to do: run the
// mutation, then refresh.
type Submission struct {
	Mutation Mutation
	Refresh  backend.Request
}

// Apply runs a mutation over the guarded connection.
func Apply(ctx context.Context, b conn.Borrower, creds rpc.Credentials, m Mutation) error {
	return b.With(ctx, func(ctx context.Context, c rpc.Conn) error {
		if err := m.Run(ctx, c, creds); err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
		return nil
	})
}

// Model holds the live draft, if any.
type Model struct {
	target Target
}

func NewModel() *Model {
	return &Model{}
}

// Current returns the live draft or nil.
func (m *Model) Current() Target {
	return m.target
}

func (m *Model) Active() bool {
	return m.target != nil
}

// Start replaces any existing draft with target.
func (m *Model) Start(target Target) {
	m.target = target
	events.Edit.Start(describe(target))
}

func (m *Model) Stop() {
	if m.target == nil {
		return
	}
	events.Edit.Stop(describe(m.target))
	m.target = nil
}

// Update writes value into field of the live draft. Drafts without that
// field, or no draft at all, leave the model unchanged and report false.
func (m *Model) Update(field Field, value string) bool {
	switch t := m.target.(type) {
	case NewShelf:
		switch field {
		case FieldName:
			t.Name = value
		case FieldCount:
			t.Slots = value
		default:
			return m.mismatch(field)
		}
		m.target = t
	case NewItem:
		switch field {
		case FieldShelf:
			t.ShelfID = value
		case FieldName:
			t.Name = value
		case FieldCount:
			t.Count = value
		default:
			return m.mismatch(field)
		}
		m.target = t
	default:
		return m.mismatch(field)
	}
	events.Edit.Field(describe(m.target), field.String())
	return true
}

func (m *Model) mismatch(field Field) bool {
	events.Edit.Mismatch(describe(m.target), field.String())
	return false
}

// Submit validates the draft. A valid creation draft is cleared and its
// Submission returned. Invalid drafts keep their input and gain an error;
// drafts that cannot be submitted are left alone.
func (m *Model) Submit() (Submission, bool) {
	switch t := m.target.(type) {
	case NewShelf:
		slots, err := parseNatural(t.Slots)
		if err != nil {
			t.Error = msgNotNatural
			return m.reject(t)
		}
		if slots == 0 {
			t.Error = msgNoSlots
			return m.reject(t)
		}
		m.accept()
		return Submission{
			Mutation: CreateShelf{ShelfID: t.Name, SlotCount: slots},
			Refresh:  backend.Request{Kind: backend.KindShelves},
		}, true
	case NewItem:
		count, err := parseNatural(t.Count)
		if err != nil {
			t.Error = msgNotNatural
			return m.reject(t)
		}
		if strings.TrimSpace(t.ShelfID) == "" {
			t.Error = msgSelectShelf
			return m.reject(t)
		}
		m.accept()
		return Submission{
			Mutation: CreateItem{ShelfID: t.ShelfID, ItemName: t.Name, Count: count},
			Refresh:  backend.Request{Kind: backend.KindItems, ShelfID: t.ShelfID},
		}, true
	default:
		return Submission{}, false
	}
}

func (m *Model) reject(t Target) (Submission, bool) {
	m.target = t
	events.Edit.Invalid(describe(t), ErrorMessage(t))
	return Submission{}, false
}

func (m *Model) accept() {
	events.Edit.Submit(describe(m.target))
	m.target = nil
}

func parseNatural(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func describe(t Target) string {
	if t == nil {
		return targetNoneLabel
	}
	return t.Title()
}
