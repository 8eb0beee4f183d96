// Package store provides the subscribable value cell backing every piece of
// session state. Mutation is replacement: callers never edit the held value in
// place, they compute a new one and swap it in, so readers always observe a
// consistent snapshot even while async workflows interleave.
package store

import (
	"sort"
	"sync"
)

// Store holds a single current value and broadcasts replacements to
// subscribers. Subscriber callbacks run synchronously on the mutating
// goroutine, in subscription order, after the new value is committed.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[int]func(T)
	nextID int
}

// New creates a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value and commits the result. fn must
// treat its argument as immutable and return a replacement.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, f := range subs {
		f(v)
	}
}

// Subscribe registers fn to run on every subsequent commit and returns a
// cancel func. fn is not called with the current value at subscribe time.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs must be called with mu held. Callbacks run outside the lock,
// so a callback that re-enters the store cannot deadlock.
func (s *Store[T]) snapshotSubs() []func(T) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// Map order is random; deliver in subscription order.
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}
