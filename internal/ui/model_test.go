package ui

import (
	"strings"
	"testing"

	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/edit"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/session"
	"github.com/sims-ims/sims-client/internal/testutil"
	"github.com/sims-ims/sims-client/internal/workspace"
)

func newTestHarness(t *testing.T, fake *testutil.FakeConn) *Harness {
	t.Helper()
	dialer := testutil.NewDialer(fake)
	if fake == nil {
		dialer = testutil.FailingDialer()
	}
	guard := conn.New("fake:50051", dialer.Dial)
	t.Cleanup(func() { _ = guard.Close() })
	return NewHarness(NewModel(Options{Width: 100, Height: 30, Guard: guard}))
}

func stockedConn() *testutil.FakeConn {
	fake := testutil.NewFakeConn()
	fake.Shelves = []rpc.ShelfInfo{{ShelfID: "alpha", SlotCount: 4}, {ShelfID: "beta", SlotCount: 2}}
	fake.Items = []rpc.ItemInfo{
		{ShelfID: "alpha", ItemID: "i1", Name: "bolt", Stock: 10, Price: 0.25},
		{ShelfID: "beta", ItemID: "i2", Name: "nut", Stock: 5, Price: 0.1},
		{ShelfID: "alpha", ItemID: "i3", Name: "washer", Stock: 7, Price: 0.05},
	}
	return fake
}

func login(h *Harness, username, password string) {
	h.Type(username)
	h.Key("tab")
	h.Type(password)
	h.Key("enter")
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestLoginSuccessRefreshesShelves(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	m := h.Model()
	st, ok := m.Session().(session.Authenticated)
	if !ok {
		t.Fatalf("expected authenticated session, got %T", m.Session())
	}
	if st.Token != "token-1" {
		t.Fatalf("unexpected token %q", st.Token)
	}
	if m.Username() != "alice" {
		t.Fatalf("expected username alice, got %q", m.Username())
	}
	calls := fake.Calls()
	if len(calls) < 2 || calls[0] != "Authenticate" || calls[1] != "ListShelves" {
		t.Fatalf("expected authenticate then shelf refresh, got %v", calls)
	}
	if got := len(m.Shelves().Entries()); got != 2 {
		t.Fatalf("expected 2 cached shelves, got %d", got)
	}
	view := h.View()
	if !strings.Contains(view, "alpha") || !strings.Contains(view, "beta") {
		t.Fatalf("expected shelves in view, got:\n%s", view)
	}
	if m.pending != 0 {
		t.Fatalf("expected no pending work, got %d", m.pending)
	}
}

func TestLoginFailureClearsDrafts(t *testing.T) {
	fake := testutil.NewFakeConn()
	fake.AuthErr = &rpc.StatusError{Code: 401, Message: "invalid credentials"}
	h := newTestHarness(t, fake)
	login(h, "alice", "wrong")

	m := h.Model()
	st, ok := m.Session().(session.Unauthenticated)
	if !ok {
		t.Fatalf("expected unauthenticated session, got %T", m.Session())
	}
	if st.ErrorMessage == "" || st.PasswordDraft != "" || m.Username() != "" {
		t.Fatalf("expected cleared drafts with error, got %+v user=%q", st, m.Username())
	}
	if m.login.username.Value() != "" || m.login.password.Value() != "" {
		t.Fatalf("expected inputs cleared")
	}
	if countCalls(fake.Calls(), "ListShelves") != 0 {
		t.Fatalf("expected no refresh after failed login")
	}
	if !strings.Contains(h.View(), "login rejected") {
		t.Fatalf("expected rejection in view, got:\n%s", h.View())
	}
}

func TestLoginWithoutServer(t *testing.T) {
	h := newTestHarness(t, nil)
	login(h, "alice", "secret")
	st, ok := h.Model().Session().(session.Unauthenticated)
	if !ok {
		t.Fatalf("expected unauthenticated session, got %T", h.Model().Session())
	}
	if st.ErrorMessage != "could not connect to server" {
		t.Fatalf("unexpected error message %q", st.ErrorMessage)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	h.Type("bob")
	h.Key("tab")
	h.Type("pw")
	h.Key("ctrl+r")

	if _, ok := h.Model().Session().(session.Authenticated); !ok {
		t.Fatalf("expected authenticated session, got %T", h.Model().Session())
	}
	calls := fake.Calls()
	if len(calls) < 3 || calls[0] != "Register" || calls[1] != "Authenticate" || calls[2] != "ListShelves" {
		t.Fatalf("unexpected call order %v", calls)
	}
}

func TestActionsIgnoredBeforeLogin(t *testing.T) {
	h := newTestHarness(t, testutil.NewFakeConn())
	h.Send(LogoutMsg{})
	if _, ok := h.Model().Session().(session.Unauthenticated); !ok {
		t.Fatalf("logout before login should be ignored")
	}
	h.Send(OpenTabMsg{Tab: workspace.ShelfView("alpha")})
	if h.Model().pending != 0 {
		t.Fatalf("no refresh should run without credentials")
	}
}

func TestOpenAndCloseShelfTab(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("enter")
	m := h.Model()
	if got := m.Tabs().Current(); got != workspace.ShelfView("alpha") {
		t.Fatalf("expected alpha shelf view, got %v", got)
	}
	if got := len(m.Items().Shelf("alpha")); got != 2 {
		t.Fatalf("expected 2 items for alpha, got %d", got)
	}
	if !strings.Contains(h.View(), "washer") {
		t.Fatalf("expected shelf items in view, got:\n%s", h.View())
	}

	h.Key("x")
	if got := m.Tabs().Current(); got != workspace.AllShelves {
		t.Fatalf("expected return to shelves, got %v", got)
	}
	if got := len(m.Tabs().Tabs()); got != 2 {
		t.Fatalf("expected fixed tabs only, got %d", got)
	}
}

func TestTabKeysNavigate(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("2")
	if got := h.Model().Tabs().Current(); got != workspace.AllItems {
		t.Fatalf("expected items tab, got %v", got)
	}
	if got := len(h.Model().Items().All()); got != 3 {
		t.Fatalf("expected all items cached, got %d", got)
	}
	h.Key("right")
	if got := h.Model().Tabs().Current(); got != workspace.AllShelves {
		t.Fatalf("expected wrap to shelves, got %v", got)
	}
	h.Key("1")
	if got := h.Model().Tabs().Current(); got != workspace.AllShelves {
		t.Fatalf("expected shelves tab, got %v", got)
	}
}

func TestCursorWrapsAndOpensSelection(t *testing.T) {
	h := newTestHarness(t, stockedConn())
	login(h, "alice", "secret")

	h.Key("up")
	if got := h.Model().lists[workspace.AllShelves].Cursor; got != 1 {
		t.Fatalf("expected cursor to wrap to 1, got %d", got)
	}
	h.Key("enter")
	if got := h.Model().Tabs().Current(); got != workspace.ShelfView("beta") {
		t.Fatalf("expected beta shelf view, got %v", got)
	}
}

func TestNewShelfValidationAndSubmit(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("n")
	if _, ok := h.Model().Draft().(edit.NewShelf); !ok {
		t.Fatalf("expected new shelf draft, got %T", h.Model().Draft())
	}
	h.Type("gamma")
	h.Key("enter")
	draft, ok := h.Model().Draft().(edit.NewShelf)
	if !ok {
		t.Fatalf("expected draft to survive validation, got %T", h.Model().Draft())
	}
	if draft.Error != "shelf must have at least 1 slot" || draft.Name != "gamma" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(fake.CreatedShelves()) != 0 {
		t.Fatalf("invalid draft must not reach the service")
	}
	if !strings.Contains(h.View(), "at least 1 slot") {
		t.Fatalf("expected inline error, got:\n%s", h.View())
	}

	h.Key("tab")
	h.Key("backspace")
	h.Type("3")
	h.Key("enter")
	if h.Model().Draft() != nil {
		t.Fatalf("expected draft cleared after submit")
	}
	created := fake.CreatedShelves()
	if len(created) != 1 || created[0].ShelfID != "gamma" || created[0].SlotCount != 3 {
		t.Fatalf("unexpected create calls %+v", created)
	}
	if created[0].Credentials.Token != "token-1" || created[0].Credentials.Username != "alice" {
		t.Fatalf("expected session credentials, got %+v", created[0].Credentials)
	}
	calls := fake.Calls()
	if calls[len(calls)-1] != "ListShelves" {
		t.Fatalf("expected shelf refresh after create, got %v", calls)
	}
	if got := len(h.Model().Shelves().Entries()); got != 3 {
		t.Fatalf("expected 3 shelves after refresh, got %d", got)
	}
}

func TestNewItemRequiresShelf(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("2")
	h.Key("n")
	h.Key("enter")
	draft, ok := h.Model().Draft().(edit.NewItem)
	if !ok {
		t.Fatalf("expected new item draft, got %T", h.Model().Draft())
	}
	if draft.Error != "you must select a shelf" {
		t.Fatalf("unexpected error %q", draft.Error)
	}
	if len(fake.CreatedItems()) != 0 {
		t.Fatalf("invalid draft must not reach the service")
	}
	h.Key("esc")
	if h.Model().Draft() != nil {
		t.Fatalf("expected esc to drop the draft")
	}
}

func TestNewItemCompletesShelfAndRefreshesScope(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("2")
	h.Key("n")
	h.Type("be")
	if got := h.Model().suggestions(); len(got) == 0 || got[0] != "beta" {
		t.Fatalf("expected beta suggestion first, got %v", got)
	}
	h.Key("tab")
	if draft := h.Model().Draft().(edit.NewItem); draft.ShelfID != "beta" {
		t.Fatalf("expected completion to beta, got %q", draft.ShelfID)
	}
	h.Key("tab")
	h.Type("spring")
	h.Key("tab")
	h.Key("backspace")
	h.Type("4")
	h.Key("enter")

	created := fake.CreatedItems()
	if len(created) != 1 || created[0].ShelfID != "beta" || created[0].ItemName != "spring" || created[0].Count != 4 {
		t.Fatalf("unexpected create calls %+v", created)
	}
	beta := h.Model().Items().Shelf("beta")
	if len(beta) != 2 || beta[1].Name != "spring" {
		t.Fatalf("expected refreshed beta items, got %+v", beta)
	}
	if got := len(h.Model().Items().Shelf("alpha")); got != 2 {
		t.Fatalf("scoped refresh must keep other shelves, got %d", got)
	}
}

func TestNewItemOnShelfViewPrefillsShelf(t *testing.T) {
	h := newTestHarness(t, stockedConn())
	login(h, "alice", "secret")
	h.Key("enter")
	h.Key("n")
	draft, ok := h.Model().Draft().(edit.NewItem)
	if !ok || draft.ShelfID != "alpha" || draft.Count != "0" {
		t.Fatalf("unexpected draft %#v", h.Model().Draft())
	}
}

func TestMutationErrorShownOnStatusLine(t *testing.T) {
	fake := stockedConn()
	fake.CreateErr = &rpc.StatusError{Code: 409, Message: "shelf exists"}
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("n")
	h.Type("alpha")
	h.Key("tab")
	h.Key("backspace")
	h.Type("1")
	h.Key("enter")

	if !strings.Contains(h.Model().Status(), "shelf exists") {
		t.Fatalf("expected status error, got %q", h.Model().Status())
	}
	if !strings.Contains(h.View(), "Error:") {
		t.Fatalf("expected status line in view, got:\n%s", h.View())
	}
	calls := fake.Calls()
	if calls[len(calls)-1] != "ListShelves" {
		t.Fatalf("expected refresh after failed create, got %v", calls)
	}
}

func TestEditTargetsSubmitAsNoOp(t *testing.T) {
	fake := stockedConn()
	h := newTestHarness(t, fake)
	login(h, "alice", "secret")

	h.Key("e")
	if got, ok := h.Model().Draft().(edit.EditShelf); !ok || got.ShelfID != "alpha" {
		t.Fatalf("expected edit shelf draft, got %#v", h.Model().Draft())
	}
	before := len(fake.Calls())
	h.Key("enter")
	if _, ok := h.Model().Draft().(edit.EditShelf); !ok {
		t.Fatalf("submit must leave edit drafts alone")
	}
	if len(fake.Calls()) != before {
		t.Fatalf("edit submit must not call the service")
	}

	h.Key("esc")
	h.Key("enter")
	h.Key("s")
	if got, ok := h.Model().Draft().(edit.EditSlot); !ok || got.ShelfID != "alpha" || got.SlotID != "1" {
		t.Fatalf("expected edit slot draft, got %#v", h.Model().Draft())
	}
}

func TestFieldChangeWithoutDraftIgnored(t *testing.T) {
	h := newTestHarness(t, stockedConn())
	login(h, "alice", "secret")
	h.Send(FieldChangedMsg{Field: edit.FieldName, Value: "x"})
	if h.Model().Draft() != nil {
		t.Fatalf("expected no draft")
	}
	h.Send(StartEditingMsg{Target: edit.NewShelf{Slots: "0"}})
	h.Send(FieldChangedMsg{Field: edit.FieldShelf, Value: "x"})
	if got := h.Model().Draft().(edit.NewShelf); got.Name != "" || got.Slots != "0" {
		t.Fatalf("mismatched field must be ignored, got %+v", got)
	}
}

func TestLogoutResetsWorkspace(t *testing.T) {
	h := newTestHarness(t, stockedConn())
	login(h, "alice", "secret")
	h.Key("enter")
	h.Key("ctrl+l")

	m := h.Model()
	if _, ok := m.Session().(session.Unauthenticated); !ok {
		t.Fatalf("expected unauthenticated session, got %T", m.Session())
	}
	if m.Username() != "" {
		t.Fatalf("expected empty username after logout")
	}
	if got := len(m.Tabs().Tabs()); got != 2 || m.Tabs().Current() != workspace.AllShelves {
		t.Fatalf("expected fresh registry, got %v", m.Tabs().Tabs())
	}
	if len(m.Shelves().Entries()) != 0 || len(m.Items().All()) != 0 {
		t.Fatalf("expected caches cleared")
	}
}

func TestQuitKey(t *testing.T) {
	h := newTestHarness(t, stockedConn())
	h.Type("q")
	if h.Quit() {
		t.Fatalf("q on the login screen is text input")
	}
	h.Key("tab")
	h.Type("pw")
	h.Key("enter")
	h.Key("q")
	if !h.Quit() {
		t.Fatalf("expected quit from inventory screen")
	}
}

func TestAgainstReferenceBackend(t *testing.T) {
	backend := testutil.StartBackend(t)
	guard := conn.New(backend.Address, rpc.DialHTTP)
	t.Cleanup(func() { _ = guard.Close() })
	h := NewHarness(NewModel(Options{Width: 120, Height: 40, Guard: guard}))

	h.Type("carol")
	h.Key("tab")
	h.Type("hunter2")
	h.Key("ctrl+r")
	if _, ok := h.Model().Session().(session.Authenticated); !ok {
		t.Fatalf("expected registration to log in, got %#v", h.Model().Session())
	}

	h.Key("n")
	h.Type("S1")
	h.Key("tab")
	h.Key("backspace")
	h.Type("2")
	h.Key("enter")
	shelves := h.Model().Shelves().Entries()
	if len(shelves) != 1 || shelves[0].ShelfID != "S1" || shelves[0].SlotCount != 2 {
		t.Fatalf("unexpected shelves %+v", shelves)
	}

	h.Key("2")
	h.Key("n")
	h.Type("S1")
	h.Key("tab")
	h.Type("bolt")
	h.Key("tab")
	h.Key("backspace")
	h.Type("5")
	h.Key("enter")
	if status := h.Model().Status(); status != "" {
		t.Fatalf("unexpected status %q", status)
	}
	items := h.Model().Items().Shelf("S1")
	if len(items) != 1 || items[0].Name != "bolt" || items[0].Stock != 5 {
		t.Fatalf("unexpected items %+v", items)
	}
	if !strings.Contains(h.View(), "bolt") {
		t.Fatalf("expected item in view, got:\n%s", h.View())
	}
}
