package repository

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when inserting an id that already exists.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrUnavailable is returned by database repositories without a connection.
	ErrUnavailable = errors.New("database not configured")
)

// MemoryStore is an ordered in-memory collection keyed by a unique, immutable id.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	id    func(T) string
	order []string
	items map[string]T
}

// NewMemoryStore builds a store seeded with items. Seeds with duplicate ids are rejected.
func NewMemoryStore[T any](id func(T) string, seed ...T) (*MemoryStore[T], error) {
	s := &MemoryStore[T]{id: id, items: make(map[string]T, len(seed))}
	for _, item := range seed {
		if err := s.Insert(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Insert appends item.
func (s *MemoryStore[T]) Insert(item T) error {
	key := s.id(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		return ErrDuplicateID
	}
	s.items[key] = item
	s.order = append(s.order, key)
	return nil
}

// Prepend inserts item at the front.
func (s *MemoryStore[T]) Prepend(item T) error {
	key := s.id(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		return ErrDuplicateID
	}
	s.items[key] = item
	s.order = append([]string{key}, s.order...)
	return nil
}

// Get returns the item with id.
func (s *MemoryStore[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

// Update mutates the item with id through fn. The id itself cannot change.
func (s *MemoryStore[T]) Update(id string, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	if err := fn(&item); err != nil {
		var zero T
		return zero, err
	}
	if s.id(item) != id {
		var zero T
		return zero, errors.New("record id is immutable")
	}
	s.items[id] = item
	return item, nil
}

// Delete removes the item with id.
func (s *MemoryStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a snapshot in insertion order.
func (s *MemoryStore[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.items[key])
	}
	return out
}

// Len returns the number of items.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
