package cache

import (
	"context"
	"sync"

	"github.com/rgehrsitz/bia/internal/domain"
)

// MemoryStore keeps projections in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.SimulationResult
	limit   int
}

// NewMemoryStore creates a store holding at most limit entries; when full it
// is cleared. A limit of zero or less means unbounded.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]domain.SimulationResult),
		limit:   limit,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return cloneResults(results), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, results []domain.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.limit > 0 && len(s.entries) >= s.limit {
		s.entries = make(map[string][]domain.SimulationResult)
	}
	s.entries[key] = cloneResults(results)
	return nil
}

// Len reports the number of cached projections.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
