package directory

import (
	"slices"
	"sync"
)

// Favorites is the set of vendor ids a user has hearted on one directory
// screen. It is safe for concurrent use.
type Favorites struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewFavorites returns an empty set
func NewFavorites() *Favorites {
	return &Favorites{ids: make(map[string]struct{})}
}

// Toggle adds id when absent and removes it when present. It returns whether
// id is a favorite afterwards.
func (f *Favorites) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

// Has reports whether id is a favorite
func (f *Favorites) Has(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// List returns the favorite ids in sorted order
func (f *Favorites) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
