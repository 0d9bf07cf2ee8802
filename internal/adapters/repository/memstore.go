package repository

import (
	"context"
	"sync"

	"github.com/okian/tally/internal/domain/model"
)

// MemStore implements Store with an RWMutex-guarded in-memory ledger plus a
// by-email index for member lookups.
type MemStore struct {
	mu      sync.RWMutex
	ledger  model.Ledger
	byEmail map[string]int // normalized email -> index into ledger.Entries
}

// NewMemStore creates an empty in-memory ledger store.
func NewMemStore(ctx context.Context) *MemStore {
	return &MemStore{
		byEmail: make(map[string]int),
	}
}

// Replace swaps in a new ledger, deep-copying entries so callers cannot
// mutate the stored state afterwards.
func (s *MemStore) Replace(ctx context.Context, ledger *model.Ledger) error {
	if ledger == nil {
		return ErrNilLedger
	}

	entries := make([]model.LedgerEntry, len(ledger.Entries))
	copy(entries, ledger.Entries)
	index := make(map[string]int, len(entries))
	for i := range entries {
		index[model.NormalizeKey(entries[i].Email)] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = model.Ledger{Entries: entries, Records: ledger.Records, UpdatedAt: ledger.UpdatedAt}
	s.byEmail = index
	return nil
}

// Snapshot returns a copy of the current ledger.
func (s *MemStore) Snapshot(ctx context.Context) (*model.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.LedgerEntry, len(s.ledger.Entries))
	copy(entries, s.ledger.Entries)
	return &model.Ledger{Entries: entries, Records: s.ledger.Records, UpdatedAt: s.ledger.UpdatedAt}, nil
}

// Member returns the entry for a (case-insensitive) email.
func (s *MemStore) Member(ctx context.Context, email string) (model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byEmail[model.NormalizeKey(email)]
	if !ok {
		return model.LedgerEntry{}, ErrNotFound
	}
	return s.ledger.Entries[i], nil
}

// Count returns the number of ledger entries.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledger.Entries)
}
