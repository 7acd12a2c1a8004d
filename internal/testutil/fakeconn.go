package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sims-ims/sims-client/internal/rpc"
)

// FakeConn is a scripted rpc.Conn. It records every call and tracks how many
// calls overlap so tests can assert exclusive use.
type FakeConn struct {
	mu sync.Mutex

	Token       rpc.Token
	AuthErr     error
	RegisterErr error
	ListErr     error
	CreateErr   error
	Shelves     []rpc.ShelfInfo
	Items       []rpc.ItemInfo
	// Delay is slept inside every call while the call is counted as in flight.
	Delay time.Duration

	calls          []string
	createdShelves []rpc.CreateShelfRequest
	createdItems   []rpc.CreateItemRequest
	closed         int

	inFlight    int32
	maxInFlight int32
}

// NewFakeConn returns a connection that accepts any credentials.
func NewFakeConn() *FakeConn {
	return &FakeConn{Token: "token-1"}
}

func (f *FakeConn) enter(name string) func() {
	n := atomic.AddInt32(&f.inFlight, 1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if n <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, n) {
			break
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, name)
	delay := f.Delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return func() { atomic.AddInt32(&f.inFlight, -1) }
}

func (f *FakeConn) Authenticate(ctx context.Context, username, password string) (rpc.Token, error) {
	defer f.enter("Authenticate")()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuthErr != nil {
		return "", f.AuthErr
	}
	return f.Token, nil
}

func (f *FakeConn) Register(ctx context.Context, username, password string) error {
	defer f.enter("Register")()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RegisterErr
}

func (f *FakeConn) ListShelves(ctx context.Context, q rpc.ListQuery) ([]rpc.ShelfInfo, error) {
	defer f.enter("ListShelves")()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []rpc.ShelfInfo
	for _, s := range f.Shelves {
		if q.ShelfID == "" || s.ShelfID == q.ShelfID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeConn) ListItems(ctx context.Context, q rpc.ListQuery) ([]rpc.ItemInfo, error) {
	defer f.enter("ListItems")()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []rpc.ItemInfo
	for _, it := range f.Items {
		if q.ShelfID == "" || it.ShelfID == q.ShelfID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *FakeConn) CreateShelf(ctx context.Context, req rpc.CreateShelfRequest) error {
	defer f.enter("CreateShelf")()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.createdShelves = append(f.createdShelves, req)
	f.Shelves = append(f.Shelves, rpc.ShelfInfo{ShelfID: req.ShelfID, SlotCount: req.SlotCount})
	return nil
}

func (f *FakeConn) CreateItem(ctx context.Context, req rpc.CreateItemRequest) error {
	defer f.enter("CreateItem")()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.createdItems = append(f.createdItems, req)
	f.Items = append(f.Items, rpc.ItemInfo{
		ShelfID: req.ShelfID,
		ItemID:  fmt.Sprintf("item-%d", len(f.createdItems)),
		Name:    req.ItemName,
		Stock:   req.Count,
	})
	return nil
}

func (f *FakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// Calls returns the names of the methods invoked so far, in order.
func (f *FakeConn) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeConn) CreatedShelves() []rpc.CreateShelfRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpc.CreateShelfRequest(nil), f.createdShelves...)
}

func (f *FakeConn) CreatedItems() []rpc.CreateItemRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpc.CreateItemRequest(nil), f.createdItems...)
}

func (f *FakeConn) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// MaxInFlight reports the largest number of calls that ever overlapped.
func (f *FakeConn) MaxInFlight() int {
	return int(atomic.LoadInt32(&f.maxInFlight))
}

// ErrDialRefused is returned by dialers built with FailingDialer.
var ErrDialRefused = errors.New("connection refused")

// Dialer counts dial attempts and hands out a fixed connection, or fails
// while Fail is set.
type Dialer struct {
	Conn rpc.Conn

	mu    sync.Mutex
	fail  bool
	dials int
}

// NewDialer returns a dialer that always yields c.
func NewDialer(c rpc.Conn) *Dialer {
	return &Dialer{Conn: c}
}

// FailingDialer returns a dialer that refuses every attempt.
func FailingDialer() *Dialer {
	return &Dialer{fail: true}
}

func (d *Dialer) SetFail(fail bool) {
	d.mu.Lock()
	d.fail = fail
	d.mu.Unlock()
}

func (d *Dialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// Dial satisfies rpc.Dialer.
func (d *Dialer) Dial(ctx context.Context, address string) (rpc.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.fail || d.Conn == nil {
		return nil, fmt.Errorf("dial %s: %w", address, ErrDialRefused)
	}
	return d.Conn, nil
}
