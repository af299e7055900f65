package directory

import (
	"testing"

	"pharmacy-refill-dispatch/internal/models"
)

func TestLookup(t *testing.T) {
	dir := New()

	store, ok := dir.Lookup("157")
	if !ok {
		t.Fatal("store 157 should exist")
	}
	if store.Name == "" || store.Phone == "" {
		t.Fatalf("incomplete directory entry: %+v", store)
	}

	if _, ok := dir.Lookup("999"); ok {
		t.Fatal("unknown store must not resolve")
	}
}

func TestList_SortedByID(t *testing.T) {
	dir := NewWithStores([]models.PharmacyStore{
		{StoreID: "203"},
		{StoreID: "112"},
		{StoreID: "157"},
	})

	list := dir.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 stores, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].StoreID >= list[i].StoreID {
			t.Fatalf("list not sorted: %v", list)
		}
	}
}
