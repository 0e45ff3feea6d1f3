// Package collection holds the in-memory ordered record store owned by a
// single screen, the pure filter pipeline evaluated over it, and the identity
// sources used when new drafts are appended.
//
// A Collection is a value. Every mutating method returns a new Collection
// backed by a fresh slice, so a snapshot handed to a renderer never observes a
// later mutation.
package collection

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateKey is returned when a record's identity already exists in the
// collection.
var ErrDuplicateKey = errors.New("duplicate key")

// Keyed is implemented by every record stored in a Collection. Key must be
// stable for the record's lifetime; WithKey returns a copy carrying k and is
// used to stamp identity onto drafts and to pin it after a patch.
type Keyed[K comparable, T any] interface {
	Key() K
	WithKey(k K) T
}

// Collection is an ordered sequence of records with unique keys
type Collection[K comparable, T Keyed[K, T]] struct {
	items []T
}

// New builds a collection from seed records, rejecting duplicate keys
func New[K comparable, T Keyed[K, T]](items []T) (Collection[K, T], error) {
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k := item.Key()
		if _, ok := seen[k]; ok {
			return Collection[K, T]{}, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}
	return Collection[K, T]{items: slices.Clone(items)}, nil
}

// Len returns the number of records
func (c Collection[K, T]) Len() int {
	return len(c.items)
}

// Items returns a copy of the records in collection order
func (c Collection[K, T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Keys returns the record keys in collection order
func (c Collection[K, T]) Keys() []K {
	keys := make([]K, len(c.items))
	for i, item := range c.items {
		keys[i] = item.Key()
	}
	return keys
}

// Get looks a record up by key
func (c Collection[K, T]) Get(k K) (T, bool) {
	if i := c.index(k); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Contains reports whether a record with key k exists
func (c Collection[K, T]) Contains(k K) bool {
	return c.index(k) >= 0
}

// Append returns a new collection with rec added at the end
func (c Collection[K, T]) Append(rec T) (Collection[K, T], error) {
	if c.Contains(rec.Key()) {
		return c, fmt.Errorf("%w: %v", ErrDuplicateKey, rec.Key())
	}
	items := make([]T, len(c.items), len(c.items)+1)
	copy(items, c.items)
	items = append(items, rec)
	return Collection[K, T]{items: items}, nil
}

// Replace returns a new collection where the record keyed k is replaced by
// fn(record), keeping its position. The key is re-stamped after fn so it can
// never change. The second result is false, and c is returned untouched, when
// no record has key k.
func (c Collection[K, T]) Replace(k K, fn func(T) T) (Collection[K, T], bool) {
	i := c.index(k)
	if i < 0 {
		return c, false
	}
	items := c.Items()
	items[i] = fn(items[i]).WithKey(k)
	return Collection[K, T]{items: items}, true
}

// Remove returns a new collection without the record keyed k. Remaining
// records keep their relative order.
func (c Collection[K, T]) Remove(k K) (Collection[K, T], bool) {
	i := c.index(k)
	if i < 0 {
		return c, false
	}
	items := make([]T, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Collection[K, T]{items: items}, true
}

func (c Collection[K, T]) index(k K) int {
	for i, item := range c.items {
		if item.Key() == k {
			return i
		}
	}
	return -1
}
