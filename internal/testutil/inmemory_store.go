// Package testutil provides in-memory repository implementations and the
// base service test suite used across service tests.
package testutil

import (
	"context"
	"sync"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// InMemoryStore is a generic thread-safe in-memory key/value store used as
// the backbone of the in-memory repositories
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create stores an item under the given id
func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("item already exists: %s", id).
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

// Get retrieves an item by id
func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		var zero T
		return zero, ierr.NewErrorf("item not found: %s", id).
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

// Update replaces an existing item
func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewErrorf("item not found: %s", id).
			Mark(ierr.ErrNotFound)
	}
	s.items[id] = item
	return nil
}

// List returns all items in insertion order
func (s *InMemoryStore[T]) List(_ context.Context) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]T, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items
}

// Clear removes all items
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]T)
	s.order = nil
}
