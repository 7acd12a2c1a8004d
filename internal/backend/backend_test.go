package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/testutil"
)

func TestFetchShelvesScoped(t *testing.T) {
	fake := testutil.NewFakeConn()
	fake.Shelves = []rpc.ShelfInfo{{ShelfID: "A", SlotCount: 2}, {ShelfID: "B", SlotCount: 1}}
	g := conn.New("svc", testutil.NewDialer(fake).Dial)

	evt := Fetch(context.Background(), g, rpc.Credentials{Username: "u", Token: "t"}, Request{Kind: KindShelves, ShelfID: "B"})
	if evt.Err != nil {
		t.Fatalf("unexpected error: %v", evt.Err)
	}
	shelves, ok := evt.Data.([]rpc.ShelfInfo)
	if !ok || len(shelves) != 1 || shelves[0].ShelfID != "B" {
		t.Fatalf("unexpected data %#v", evt.Data)
	}
	if evt.Kind != KindShelves || evt.ShelfID != "B" {
		t.Fatalf("event must echo the request, got %+v", evt)
	}
}

func TestFetchItemsError(t *testing.T) {
	fake := testutil.NewFakeConn()
	fake.ListErr = &rpc.StatusError{Code: 401}
	g := conn.New("svc", testutil.NewDialer(fake).Dial)

	evt := Fetch(context.Background(), g, rpc.Credentials{}, Request{Kind: KindItems})
	var se *rpc.StatusError
	if !errors.As(evt.Err, &se) {
		t.Fatalf("expected status error, got %v", evt.Err)
	}
	if evt.Data != nil {
		t.Fatalf("failed fetch must carry no data")
	}
}

func TestFetchNotConnected(t *testing.T) {
	g := conn.New("svc", testutil.FailingDialer().Dial)
	evt := Fetch(context.Background(), g, rpc.Credentials{}, Request{Kind: KindItems, ShelfID: "A"})
	if !errors.Is(evt.Err, conn.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", evt.Err)
	}
}

func TestWatcherTicksUntilStopped(t *testing.T) {
	w := NewWatcher(5 * time.Millisecond)
	select {
	case _, ok := <-w.Events():
		if !ok {
			t.Fatalf("channel closed before first tick")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for tick")
	}
	w.Stop()
	w.Wait()
	for range w.Events() {
	}
}

func TestWatcherDisabled(t *testing.T) {
	w := NewWatcher(0)
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatalf("disabled watcher must not tick")
		}
	case <-time.After(time.Second):
		t.Fatalf("disabled watcher channel should close")
	}
	w.Stop()
}
