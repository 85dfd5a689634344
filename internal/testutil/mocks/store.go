// Package mocks provides test doubles shared across package tests.
package mocks

import (
	"context"
	"sync"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/storage"
)

// Store is an in-memory storage.Store that records save attempts and can
// be told to fail them
type Store struct {
	*storage.MemoryStore

	mu      sync.Mutex
	saveErr error
	saves   int
}

// NewStore creates an empty mock store
func NewStore() *Store {
	return &Store{MemoryStore: storage.NewMemoryStore("")}
}

// FailSaves makes every following Save return err. A nil err restores
// normal behavior.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Save records the attempt, then fails or stores doc
func (s *Store) Save(ctx context.Context, doc document.Document) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	s.mu.Unlock()

	if err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, doc)
}

// Saves returns the number of Save calls so far
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
