package streets

import (
	"sync"
	"time"

	"github.com/UnknownOlympus/herroute/internal/models"
)

// Store holds the latest complete street set. Loads are sequenced by tokens:
// a commit is accepted only if its token is newer than the last accepted one.
type Store struct {
	mu       sync.RWMutex
	records  []models.StreetRecord
	issued   uint64
	applied  uint64
	loadedAt time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin reserves a token for a load that is about to start.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Commit replaces the whole set if token is newer than the applied one.
// It reports whether the records were applied.
func (s *Store) Commit(token uint64, records []models.StreetRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token <= s.applied {
		return false
	}

	s.records = records
	s.applied = token
	s.loadedAt = time.Now()

	return true
}

// Snapshot returns the current set. The slice is shared and must not be modified.
func (s *Store) Snapshot() []models.StreetRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records
}

// Len returns the number of records in the current set.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// LoadedAt returns when the current set was committed, zero if never.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadedAt
}
