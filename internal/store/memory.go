package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/temperature-prediction/internal/weather"
)

var (
	// ErrNotFound is returned when no observation matches a query.
	ErrNotFound = errors.New("no weather observations found")
)

// MemoryStore is a concurrency-safe in-memory snapshot of observation history.
// Replace swaps the whole snapshot; readers never see a partial update.
type MemoryStore struct {
	mu sync.RWMutex

	observations []weather.Observation

	// retention configuration
	maxHistory int // max number of observations kept (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{maxHistory: maxHistory}
}

// Replace installs a new snapshot, keeping only the newest maxHistory entries.
func (s *MemoryStore) Replace(observations []weather.Observation) {
	snapshot := make([]weather.Observation, len(observations))
	copy(snapshot, observations)

	if s.maxHistory > 0 && len(snapshot) > s.maxHistory {
		over := len(snapshot) - s.maxHistory
		snapshot = snapshot[over:]
	}

	s.mu.Lock()
	s.observations = snapshot
	s.mu.Unlock()
}

// Len returns the number of stored observations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observations)
}

// Latest returns up to n of the most recent observations, oldest first.
// n <= 0 returns everything.
func (s *MemoryStore) Latest(n int) []weather.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if n > 0 && n < len(s.observations) {
		start = len(s.observations) - n
	}
	out := make([]weather.Observation, len(s.observations)-start)
	copy(out, s.observations[start:])
	return out
}

// Range returns all observations between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Observation
	for _, obs := range s.observations {
		if (obs.Timestamp.Equal(from) || obs.Timestamp.After(from)) &&
			(obs.Timestamp.Equal(to) || obs.Timestamp.Before(to)) {
			result = append(result, obs)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
