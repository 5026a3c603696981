package history

import (
	"context"
	"sort"
	"sync"

	"github.com/brandsignal/foresight/core/model"
)

// MemoryStore keeps observations in memory, keyed by domain. Used for tests,
// local runs and as the fail-soft fallback when no backend is reachable.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]model.Observation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]model.Observation{}}
}

// Add appends observations for the domain.
func (s *MemoryStore) Add(domain string, obs ...model.Observation) {
	s.mu.Lock()
	s.data[domain] = append(s.data[domain], obs...)
	s.mu.Unlock()
}

// Query returns a copy of the domain's observations sorted by timestamp.
func (s *MemoryStore) Query(ctx context.Context, domain string) ([]model.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	src := s.data[domain]
	out := make([]model.Observation, len(src))
	copy(out, src)
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
