package state

import (
	"reflect"
	"testing"

	"github.com/sims-ims/sims-client/internal/rpc"
)

func item(shelf, id string) rpc.ItemInfo {
	return rpc.ItemInfo{ShelfID: shelf, ItemID: id}
}

func TestGroupByShelfKeepsOrder(t *testing.T) {
	keys, grouped := GroupByShelf([]rpc.ItemInfo{item("A", "1"), item("B", "2"), item("A", "3")})
	if !reflect.DeepEqual(keys, []string{"A", "B"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
	want := map[string][]rpc.ItemInfo{
		"A": {item("A", "1"), item("A", "3")},
		"B": {item("B", "2")},
	}
	if !reflect.DeepEqual(grouped, want) {
		t.Fatalf("unexpected grouping %v", grouped)
	}
}

func TestItemStoreReplaceShelf(t *testing.T) {
	s := NewItemStore()
	s.ReplaceAll([]rpc.ItemInfo{item("A", "1"), item("B", "2")})
	s.ReplaceShelf("A", []rpc.ItemInfo{item("A", "9")})
	s.ReplaceShelf("C", []rpc.ItemInfo{item("C", "5")})

	if got := s.Shelf("B"); len(got) != 1 || got[0].ItemID != "2" {
		t.Fatalf("scoped replace touched another shelf: %v", got)
	}
	var ids []string
	for _, it := range s.All() {
		ids = append(ids, it.ItemID)
	}
	if !reflect.DeepEqual(ids, []string{"9", "2", "5"}) {
		t.Fatalf("unexpected flattened order %v", ids)
	}

	s.ReplaceAll([]rpc.ItemInfo{item("B", "7")})
	if len(s.Shelf("A")) != 0 || !reflect.DeepEqual(s.Keys(), []string{"B"}) {
		t.Fatalf("full replace must drop stale shelves, keys=%v", s.Keys())
	}
}

func TestShelfStoreClones(t *testing.T) {
	s := NewShelfStore()
	in := []rpc.ShelfInfo{{ShelfID: "A", SlotCount: 1}}
	s.SetEntries(in)
	in[0].ShelfID = "mutated"
	out := s.Entries()
	if out[0].ShelfID != "A" {
		t.Fatalf("store must copy on write")
	}
	out[0].ShelfID = "again"
	if s.IDs()[0] != "A" {
		t.Fatalf("store must copy on read")
	}
}
