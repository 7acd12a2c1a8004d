package state

import "github.com/sims-ims/sims-client/internal/rpc"

// ItemStore caches item lists per shelf. Shelf keys keep the order in which
// they were first seen so the combined listing is stable.
type ItemStore interface {
	Shelf(shelfID string) []rpc.ItemInfo
	All() []rpc.ItemInfo
	Keys() []string
	ReplaceAll([]rpc.ItemInfo)
	ReplaceShelf(shelfID string, items []rpc.ItemInfo)
}

type itemStore struct {
	keys    []string
	byShelf map[string][]rpc.ItemInfo
}

func NewItemStore() ItemStore {
	return &itemStore{byShelf: make(map[string][]rpc.ItemInfo)}
}

func (s *itemStore) Shelf(shelfID string) []rpc.ItemInfo {
	return cloneItems(s.byShelf[shelfID])
}

// All flattens the cache shelf by shelf.
func (s *itemStore) All() []rpc.ItemInfo {
	var out []rpc.ItemInfo
	for _, k := range s.keys {
		out = append(out, s.byShelf[k]...)
	}
	return out
}

func (s *itemStore) Keys() []string {
	return append([]string(nil), s.keys...)
}

// ReplaceAll rebuilds the whole mapping from a flat listing.
func (s *itemStore) ReplaceAll(items []rpc.ItemInfo) {
	s.keys, s.byShelf = GroupByShelf(items)
}

// ReplaceShelf swaps one shelf's entry, leaving the others untouched.
func (s *itemStore) ReplaceShelf(shelfID string, items []rpc.ItemInfo) {
	if _, ok := s.byShelf[shelfID]; !ok {
		s.keys = append(s.keys, shelfID)
	}
	s.byShelf[shelfID] = cloneItems(items)
}

// GroupByShelf buckets items by shelf id, keeping relative order within each
// shelf and returning the shelf ids in first-seen order.
func GroupByShelf(items []rpc.ItemInfo) ([]string, map[string][]rpc.ItemInfo) {
	grouped := make(map[string][]rpc.ItemInfo)
	var keys []string
	for _, it := range items {
		if _, ok := grouped[it.ShelfID]; !ok {
			keys = append(keys, it.ShelfID)
		}
		grouped[it.ShelfID] = append(grouped[it.ShelfID], it)
	}
	return keys, grouped
}

func cloneItems(items []rpc.ItemInfo) []rpc.ItemInfo {
	if len(items) == 0 {
		return nil
	}
	dup := make([]rpc.ItemInfo, len(items))
	copy(dup, items)
	return dup
}
