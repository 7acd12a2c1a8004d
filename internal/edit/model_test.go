package edit

import (
	"context"
	"errors"
	"testing"

	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/testutil"
)

func TestStartReplacesAndStopClears(t *testing.T) {
	m := NewModel()
	m.Start(NewShelf{Slots: "0"})
	m.Start(EditShelf{ShelfID: "A"})
	if _, ok := m.Current().(EditShelf); !ok {
		t.Fatalf("start must replace draft, got %T", m.Current())
	}
	m.Stop()
	if m.Active() {
		t.Fatalf("stop must clear draft")
	}
}

func TestUpdateRoutesByVariant(t *testing.T) {
	m := NewModel()
	if m.Update(FieldName, "x") {
		t.Fatalf("update without a draft must be ignored")
	}
	m.Start(NewItem{Count: "0"})
	m.Update(FieldShelf, "A")
	m.Update(FieldName, "bolt")
	m.Update(FieldCount, "12")
	want := NewItem{ShelfID: "A", Name: "bolt", Count: "12"}
	if m.Current() != want {
		t.Fatalf("unexpected draft %+v", m.Current())
	}

	m.Start(NewShelf{Slots: "0"})
	if m.Update(FieldShelf, "A") {
		t.Fatalf("NewShelf has no shelf field")
	}
	if m.Current() != (NewShelf{Slots: "0"}) {
		t.Fatalf("mismatched update must not change draft")
	}

	m.Start(EditSlot{ShelfID: "A", SlotID: "1"})
	if m.Update(FieldName, "x") {
		t.Fatalf("EditSlot takes no input")
	}
}

func TestSubmitNewShelfValidation(t *testing.T) {
	cases := []struct {
		slots string
		want  string
	}{
		{"0", "shelf must have at least 1 slot"},
		{"-1", "slots must be a natural number"},
		{"abc", "slots must be a natural number"},
		{"", "slots must be a natural number"},
	}
	for _, tc := range cases {
		m := NewModel()
		m.Start(NewShelf{Name: "A", Slots: tc.slots})
		if _, ok := m.Submit(); ok {
			t.Fatalf("slots %q must not submit", tc.slots)
		}
		draft, ok := m.Current().(NewShelf)
		if !ok {
			t.Fatalf("draft must be retained, got %T", m.Current())
		}
		if draft.Error != tc.want || draft.Name != "A" || draft.Slots != tc.slots {
			t.Fatalf("slots %q: unexpected draft %+v", tc.slots, draft)
		}
	}
}

func TestSubmitNewShelf(t *testing.T) {
	m := NewModel()
	m.Start(NewShelf{Name: "A", Slots: " 4 "})
	sub, ok := m.Submit()
	if !ok {
		t.Fatalf("expected submission")
	}
	if sub.Mutation != (CreateShelf{ShelfID: "A", SlotCount: 4}) {
		t.Fatalf("unexpected mutation %+v", sub.Mutation)
	}
	if sub.Refresh != (backend.Request{Kind: backend.KindShelves}) {
		t.Fatalf("unexpected refresh %+v", sub.Refresh)
	}
	if m.Active() {
		t.Fatalf("submission must clear draft")
	}
}

func TestSubmitNewItem(t *testing.T) {
	m := NewModel()
	m.Start(NewItem{Name: "bolt", Count: "0"})
	if _, ok := m.Submit(); ok {
		t.Fatalf("missing shelf must not submit")
	}
	if got := ErrorMessage(m.Current()); got != "you must select a shelf" {
		t.Fatalf("unexpected error %q", got)
	}

	m.Update(FieldShelf, "A")
	m.Update(FieldCount, "x")
	if _, ok := m.Submit(); ok {
		t.Fatalf("bad count must not submit")
	}
	if got := ErrorMessage(m.Current()); got != "slots must be a natural number" {
		t.Fatalf("unexpected error %q", got)
	}

	m.Update(FieldCount, "3")
	sub, ok := m.Submit()
	if !ok {
		t.Fatalf("expected submission")
	}
	if sub.Mutation != (CreateItem{ShelfID: "A", ItemName: "bolt", Count: 3}) {
		t.Fatalf("unexpected mutation %+v", sub.Mutation)
	}
	if sub.Refresh != (backend.Request{Kind: backend.KindItems, ShelfID: "A"}) {
		t.Fatalf("unexpected refresh %+v", sub.Refresh)
	}
}

func TestSubmitEditVariantsIsNoop(t *testing.T) {
	for _, target := range []Target{EditShelf{ShelfID: "A"}, EditItem{ShelfID: "A", ItemID: "1"}, EditSlot{ShelfID: "A", SlotID: "2"}} {
		m := NewModel()
		m.Start(target)
		if _, ok := m.Submit(); ok {
			t.Fatalf("%T must not submit", target)
		}
		if m.Current() != target {
			t.Fatalf("%T draft must be untouched", target)
		}
	}
	m := NewModel()
	if _, ok := m.Submit(); ok {
		t.Fatalf("submit without a draft must be a no-op")
	}
}

func TestApplyRunsMutation(t *testing.T) {
	fake := testutil.NewFakeConn()
	g := conn.New("svc", testutil.NewDialer(fake).Dial)
	creds := rpc.Credentials{Username: "alice", Token: "t"}

	if err := Apply(context.Background(), g, creds, CreateItem{ShelfID: "A", ItemName: "bolt", Count: 2}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	created := fake.CreatedItems()
	if len(created) != 1 || created[0].Credentials != creds || created[0].Count != 2 {
		t.Fatalf("unexpected created items %+v", created)
	}

	fake.CreateErr = &rpc.StatusError{Code: 409}
	err := Apply(context.Background(), g, creds, CreateShelf{ShelfID: "A", SlotCount: 1})
	var se *rpc.StatusError
	if !errors.As(err, &se) || se.Code != 409 {
		t.Fatalf("expected wrapped status error, got %v", err)
	}
}
