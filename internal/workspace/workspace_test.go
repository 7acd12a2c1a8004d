package workspace

import (
	"math/rand"
	"testing"

	"github.com/sims-ims/sims-client/internal/backend"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	tabs := r.Tabs()
	if len(tabs) != 2 || tabs[0] != AllShelves || tabs[1] != AllItems {
		t.Fatalf("unexpected default tabs %v", tabs)
	}
	if r.Current() != AllShelves {
		t.Fatalf("empty stack must fall back to AllShelves, got %v", r.Current())
	}
}

func TestOpenReturnsScopedRefresh(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		tab  TabID
		want backend.Request
	}{
		{AllShelves, backend.Request{Kind: backend.KindShelves}},
		{AllItems, backend.Request{Kind: backend.KindItems}},
		{ShelfView("A"), backend.Request{Kind: backend.KindItems, ShelfID: "A"}},
	}
	for _, tc := range cases {
		if got := r.Open(tc.tab); got != tc.want {
			t.Fatalf("Open(%v) = %+v, want %+v", tc.tab, got, tc.want)
		}
		if r.Current() != tc.tab {
			t.Fatalf("expected %v to be current, got %v", tc.tab, r.Current())
		}
	}
}

func TestOpenExistingDoesNotDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Open(ShelfView("A"))
	r.Open(ShelfView("B"))
	r.Open(ShelfView("A"))
	if len(r.Tabs()) != 4 {
		t.Fatalf("expected 4 tabs, got %v", r.Tabs())
	}
	if r.Index(ShelfView("A")) != 2 {
		t.Fatalf("re-open must keep original position")
	}
	if r.Current() != ShelfView("A") {
		t.Fatalf("re-open must navigate, got %v", r.Current())
	}
}

func TestCloseRemovesEveryStackOccurrence(t *testing.T) {
	r := NewRegistry()
	r.Open(ShelfView("x"))
	r.NavigateTo(AllItems)
	r.NavigateTo(ShelfView("x"))
	r.NavigateTo(AllShelves)
	r.NavigateTo(ShelfView("x"))

	if !r.Close(ShelfView("x")) {
		t.Fatalf("expected close to apply")
	}
	for _, tab := range r.Stack() {
		if tab == ShelfView("x") {
			t.Fatalf("stack still references closed tab: %v", r.Stack())
		}
	}
	if r.Current() != AllShelves {
		t.Fatalf("expected AllShelves after close, got %v", r.Current())
	}
	if r.Index(ShelfView("x")) != -1 {
		t.Fatalf("closed tab still open")
	}
}

func TestClosePermanentTabsIsNoop(t *testing.T) {
	r := NewRegistry()
	r.NavigateTo(AllItems)
	if r.Close(AllItems) || r.Close(AllShelves) {
		t.Fatalf("permanent tabs must not close")
	}
	if r.Current() != AllItems || len(r.Tabs()) != 2 {
		t.Fatalf("registry changed on no-op close")
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	shelves := []string{"a", "b", "c"}
	for run := 0; run < 50; run++ {
		r := NewRegistry()
		var last []TabID
		for step := 0; step < 100; step++ {
			id := ShelfView(shelves[rng.Intn(len(shelves))])
			switch rng.Intn(4) {
			case 0:
				r.Open(id)
				last = append(last, id)
			case 1:
				r.Close(id)
				filtered := last[:0]
				for _, tab := range last {
					if tab != id {
						filtered = append(filtered, tab)
					}
				}
				last = filtered
			case 2:
				r.NavigateTo(AllItems)
				last = append(last, AllItems)
			default:
				r.NavigateTo(AllShelves)
				last = append(last, AllShelves)
			}

			tabs := r.Tabs()
			if len(tabs) < 2 || tabs[0] != AllShelves || tabs[1] != AllItems {
				t.Fatalf("permanent tabs missing: %v", tabs)
			}
			for _, tab := range r.Stack() {
				if r.Index(tab) < 0 {
					t.Fatalf("stack entry %v not open", tab)
				}
			}
			want := AllShelves
			if len(last) > 0 {
				want = last[len(last)-1]
			}
			if r.Current() != want {
				t.Fatalf("current = %v, want %v", r.Current(), want)
			}
		}
	}
}
