// Package memory is an in-process remote store used when no spreadsheet
// is configured, and as a fake in worker tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pettycash/internal/core"
	"pettycash/internal/remote"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Transaction
	order []string
}

var (
	_ remote.TransactionUpserter = (*Store)(nil)
	_ remote.TransactionDeleter  = (*Store)(nil)
	_ remote.TransactionLister   = (*Store)(nil)
)

func New() *Store {
	return &Store{items: make(map[string]core.Transaction)}
}

// Upsert stores the transaction and returns a synthetic row reference.
func (s *Store) Upsert(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.items[t.ID] = t
	return fmt.Sprintf("mem:%s", t.ID), nil
}

// Delete removes the transaction. Missing IDs are a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListIDs returns stored IDs in insertion order.
func (s *Store) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

// Get exposes stored state for tests.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	return t, ok
}
