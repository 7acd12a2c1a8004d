package state

import "github.com/sims-ims/sims-client/internal/rpc"

type ShelfStore interface {
	Entries() []rpc.ShelfInfo
	SetEntries([]rpc.ShelfInfo)
	IDs() []string
}

type shelfStore struct {
	entries []rpc.ShelfInfo
}

func NewShelfStore() ShelfStore {
	return &shelfStore{}
}

func (s *shelfStore) Entries() []rpc.ShelfInfo {
	return cloneShelves(s.entries)
}

func (s *shelfStore) SetEntries(entries []rpc.ShelfInfo) {
	s.entries = cloneShelves(entries)
}

// IDs lists the shelf ids in cache order.
func (s *shelfStore) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		ids = append(ids, e.ShelfID)
	}
	return ids
}

func cloneShelves(entries []rpc.ShelfInfo) []rpc.ShelfInfo {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]rpc.ShelfInfo, len(entries))
	copy(dup, entries)
	return dup
}
