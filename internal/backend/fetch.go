package backend

import (
	"context"
	"fmt"

	"github.com/sims-ims/sims-client/internal/conn"
	"github.com/sims-ims/sims-client/internal/rpc"
)

// Kind identifies which collection a request or event concerns.
type Kind int

const (
	KindShelves Kind = iota
	KindItems
)

func (k Kind) String() string {
	switch k {
	case KindShelves:
		return "shelves"
	case KindItems:
		return "items"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request asks for a collection to be refetched. An empty ShelfID means the
// whole collection.
type Request struct {
	Kind    Kind
	ShelfID string
}

// Event conveys fetched data or an error for a Request. Data holds
// []rpc.ShelfInfo or []rpc.ItemInfo depending on Kind.
type Event struct {
	Kind    Kind
	ShelfID string
	Data    interface{}
	Err     error
}

// Fetch runs req against the service and packages the outcome.
func Fetch(ctx context.Context, b conn.Borrower, creds rpc.Credentials, req Request) Event {
	evt := Event{Kind: req.Kind, ShelfID: req.ShelfID}
	q := rpc.ListQuery{ShelfID: req.ShelfID, Credentials: creds}
	evt.Err = b.With(ctx, func(ctx context.Context, c rpc.Conn) error {
		switch req.Kind {
		case KindShelves:
			shelves, err := c.ListShelves(ctx, q)
			if err != nil {
				return fmt.Errorf("list shelves: %w", err)
			}
			evt.Data = shelves
		case KindItems:
			items, err := c.ListItems(ctx, q)
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			evt.Data = items
		default:
			return fmt.Errorf("unknown request kind %v", req.Kind)
		}
		return nil
	})
	return evt
}
