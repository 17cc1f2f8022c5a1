// Package memory is a process local ledger store for development and tests.
package memory

import (
	"context"
	"sync"

	"expenses/internal/core"
)

type Store struct {
	mu    sync.RWMutex
	byID  map[string]int
	items []core.ExpenseRecord
}

func New() *Store {
	return &Store{byID: make(map[string]int)}
}

// Insert stores rec unless its id is already taken.
func (s *Store) Insert(_ context.Context, rec core.ExpenseRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[rec.ID]; ok {
		return core.ErrDuplicateID
	}
	s.byID[rec.ID] = len(s.items)
	s.items = append(s.items, rec)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return core.ExpenseRecord{}, core.ErrNotFound
	}
	return s.items[i], nil
}

// List returns a copy of the matching records in insertion order.
func (s *Store) List(_ context.Context, filter core.ListFilter) ([]core.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ExpenseRecord, 0, len(s.items))
	for _, rec := range s.items {
		if filter.Category == "" || rec.Category == filter.Category {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
