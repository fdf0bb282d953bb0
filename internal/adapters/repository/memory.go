package repository

import (
	"context"
	"sync"

	"github.com/okian/bikelog/internal/domain/model"
)

// MemoryStore keeps rows in process memory, encoded exactly as a spreadsheet
// backend would store them.
type MemoryStore struct {
	mu   sync.RWMutex
	rows [][]string
}

// NewMemoryStore returns an empty, not yet created store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return "memory" }

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, r model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) == 0 {
		s.rows = append(s.rows, headerRow())
	}
	s.rows = append(s.rows, r.Strings())
	return nil
}

// Records implements Store.
func (s *MemoryStore) Records(_ context.Context) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeRows(s.rows), nil
}

// Header implements Store.
func (s *MemoryStore) Header(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rows) == 0 {
		return nil, nil
	}
	return append([]string(nil), s.rows[0]...), nil
}

// Len returns the number of rows including the header.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Close implements Store. The rows stay in place so a reopened handle to the
// same MemoryStore still sees them.
func (s *MemoryStore) Close() error { return nil }
