// server/internal/directory/directory.go
package directory

import (
	"sort"

	"pharmacy-refill-dispatch/internal/models"
)

// Directory is the static store directory. It is an external collaborator
// from the dispatch core's point of view: the core only consults it to
// validate store ids at submission and to answer printer lookups.
type Directory struct {
	stores map[string]models.PharmacyStore
}

// New returns the directory with the built-in store list.
func New() *Directory {
	return &Directory{stores: defaultStores()}
}

// NewWithStores builds a directory from an explicit list (used by tests).
func NewWithStores(stores []models.PharmacyStore) *Directory {
	m := make(map[string]models.PharmacyStore, len(stores))
	for _, s := range stores {
		m[s.StoreID] = s
	}
	return &Directory{stores: m}
}

// Lookup returns the store for the given id.
func (d *Directory) Lookup(storeID string) (models.PharmacyStore, bool) {
	s, ok := d.stores[storeID]
	return s, ok
}

// List returns all stores sorted by id, for the form dropdown.
func (d *Directory) List() []models.PharmacyStore {
	out := make([]models.PharmacyStore, 0, len(d.stores))
	for _, s := range d.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

func defaultStores() map[string]models.PharmacyStore {
	list := []models.PharmacyStore{
		{StoreID: "112", Name: "Downtown Pharmacy", City: "Kansas City", Phone: "(816) 555-0112"},
		{StoreID: "134", Name: "Brookside Market Pharmacy", City: "Kansas City", Phone: "(816) 555-0134"},
		{StoreID: "157", Name: "Overland Park Pharmacy", City: "Overland Park", Phone: "(913) 555-0157"},
		{StoreID: "203", Name: "Lenexa Pharmacy", City: "Lenexa", Phone: "(913) 555-0203"},
		{StoreID: "218", Name: "Liberty Pharmacy", City: "Liberty", Phone: "(816) 555-0218"},
	}
	m := make(map[string]models.PharmacyStore, len(list))
	for _, s := range list {
		m[s.StoreID] = s
	}
	return m
}
