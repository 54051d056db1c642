// Package memory implements an in-process RecordStore for tests and
// single-run development sessions.
package memory

import (
	"context"
	"sync"

	"mousetrack/pkg/domain"
)

// Store keeps the record set in process memory. Mutations survive only as
// long as the process, so its guarantee level is session-only.
type Store struct {
	mu      sync.RWMutex
	records []domain.MouseRecord
}

// New returns an empty in-memory record store.
func New() *Store { return &Store{} }

// Seed replaces the stored records without going through Save (tests).
func (s *Store) Seed(records []domain.MouseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.MouseRecord(nil), records...)
}

// Load returns the records in insertion order.
func (s *Store) Load(context.Context) ([]domain.MouseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MouseRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Save replaces the stored record set.
func (s *Store) Save(_ context.Context, records []domain.MouseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.MouseRecord(nil), records...)
	return nil
}

// Guarantee reports the session-only persistence level.
func (s *Store) Guarantee() domain.Guarantee { return domain.GuaranteeSessionOnly }

var _ domain.RecordStore = (*Store)(nil)
