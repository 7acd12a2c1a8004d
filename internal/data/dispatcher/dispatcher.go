package dispatcher

import (
	"fmt"

	"github.com/sims-ims/sims-client/internal/backend"
	"github.com/sims-ims/sims-client/internal/logging"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"github.com/sims-ims/sims-client/internal/rpc"
	"github.com/sims-ims/sims-client/internal/state"
)

type Result struct {
	ShelvesUpdated bool
	ItemsUpdated   bool
}

type Dispatcher struct {
	shelves state.ShelfStore
	items   state.ItemStore
}

func New(s state.ShelfStore, i state.ItemStore) *Dispatcher {
	return &Dispatcher{shelves: s, items: i}
}

// Handle folds a fetch result into the cache. Failed fetches are logged and
// leave the cache as it was.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		events.Cache.Failed(evt.Kind.String(), evt.ShelfID, evt.Err)
		logging.Error(fmt.Errorf("refresh %s: %w", evt.Kind, evt.Err))
		return res
	}
	switch evt.Kind {
	case backend.KindShelves:
		if shelves, ok := evt.Data.([]rpc.ShelfInfo); ok {
			d.shelves.SetEntries(shelves)
			res.ShelvesUpdated = true
			events.Cache.Updated(evt.Kind.String(), evt.ShelfID, len(shelves))
		}
	case backend.KindItems:
		if items, ok := evt.Data.([]rpc.ItemInfo); ok {
			if evt.ShelfID != "" {
				d.items.ReplaceShelf(evt.ShelfID, items)
			} else {
				d.items.ReplaceAll(items)
			}
			res.ItemsUpdated = true
			events.Cache.Updated(evt.Kind.String(), evt.ShelfID, len(items))
		}
	}
	return res
}
