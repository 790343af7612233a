// Package entity provides opaque entity handles and typed arenas keyed by them.
//
// Units, attack executions, transient visuals and projectiles all draw their
// handles from one Allocator, so a handle never names two different things
// during a battle.
package entity

import (
	"sort"
	"strconv"
)

// ID is an opaque handle to a record in a Store. The zero ID is never allocated.
type ID uint64

// None is the zero handle, used where a handle is optional.
const None ID = 0

// Valid reports whether the handle was produced by an Allocator.
func (id ID) Valid() bool { return id != None }

// String returns a short debug form such as "e17".
func (id ID) String() string {
	return "e" + strconv.FormatUint(uint64(id), 10)
}

// Allocator hands out monotonically increasing handles.
type Allocator struct {
	next ID
}

// NewAllocator creates an allocator whose first handle is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a fresh handle.
func (a *Allocator) Next() ID {
	a.next++
	return a.next
}

// Store is an arena of records of one type. Iteration is in handle order so
// every pass over a store is deterministic.
type Store[T any] struct {
	records map[ID]*T
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{records: make(map[ID]*T)}
}

// Insert adds or replaces the record for id.
func (s *Store[T]) Insert(id ID, record *T) {
	s.records[id] = record
}

// Get returns the record for id, or nil and false if none exists.
func (s *Store[T]) Get(id ID) (*T, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Has reports whether a record exists for id.
func (s *Store[T]) Has(id ID) bool {
	_, ok := s.records[id]
	return ok
}

// Remove deletes the record for id. Removing a missing id is a no-op.
func (s *Store[T]) Remove(id ID) {
	delete(s.records, id)
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	return len(s.records)
}

// IDs returns all handles in ascending order.
func (s *Store[T]) IDs() []ID {
	ids := make([]ID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Each calls fn for every record in handle order. Records may be removed
// from inside fn; records inserted during iteration are not visited.
func (s *Store[T]) Each(fn func(id ID, record *T)) {
	for _, id := range s.IDs() {
		if r, ok := s.records[id]; ok {
			fn(id, r)
		}
	}
}
