// Package conn owns the single connection to the inventory service and hands
// it out to one borrower at a time.
package conn

import (
	"context"
	"errors"
	"fmt"

	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/rpc"
)

// ErrNotConnected is returned when no connection is held and dialing failed.
var ErrNotConnected = errors.New("not connected")

// Guard serialises access to a lazily dialed rpc.Conn. The zero value is not
// usable; construct guards with New.
type Guard struct {
	address string
	dial    rpc.Dialer

	// sem has capacity one. Holding its token grants ownership of slot.
	sem  chan struct{}
	slot rpc.Conn
}

// New returns a guard that dials address with dial on first use.
func New(address string, dial rpc.Dialer) *Guard {
	if dial == nil {
		dial = rpc.DialHTTP
	}
	return &Guard{
		address: address,
		dial:    dial,
		sem:     make(chan struct{}, 1),
	}
}

// Address reports the configured service address.
func (g *Guard) Address() string {
	return g.address
}

// With borrows the connection for the duration of op. An empty slot is dialed
// first; when that fails op is not called and the error wraps ErrNotConnected.
// Fatal errors returned by op discard the connection so the next borrower
// re-dials.
func (g *Guard) With(ctx context.Context, op func(context.Context, rpc.Conn) error) error {
	if err := g.acquire(ctx); err != nil {
		return err
	}
	defer g.release()

	if g.slot == nil {
		events.Conn.Dial(g.address)
		c, err := g.dial(ctx, g.address)
		if err != nil {
			events.Conn.DialFailed(g.address, err)
			return fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		g.slot = c
	}

	err := op(ctx, g.slot)
	if err != nil && rpc.IsFatal(err) {
		events.Conn.Dropped(g.address, err)
		_ = g.slot.Close()
		g.slot = nil
	}
	return err
}

// Close releases the held connection, if any. It waits for the current
// borrower to finish.
func (g *Guard) Close() error {
	g.sem <- struct{}{}
	defer g.release()
	if g.slot == nil {
		return nil
	}
	err := g.slot.Close()
	g.slot = nil
	events.Conn.Closed(g.address)
	return err
}

func (g *Guard) acquire(ctx context.Context) error {
	select {
	case g.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Guard) release() {
	<-g.sem
}

// Borrower is the part of Guard that callers issuing requests depend on.
type Borrower interface {
	With(ctx context.Context, op func(context.Context, rpc.Conn) error) error
}

var _ Borrower = (*Guard)(nil)
