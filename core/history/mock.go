package history

import (
	"context"
	"sync"
	"time"

	"github.com/brandsignal/foresight/core/model"
)

// Mock returns canned observations and records call counts. Delay simulates
// a slow backend; Err forces every query to fail.
type Mock struct {
	Observations map[string][]model.Observation
	Err          error
	Delay        time.Duration

	mu    sync.Mutex
	calls int
}

// Query returns the configured rows for the domain after the optional delay.
func (m *Mock) Query(ctx context.Context, domain string) ([]model.Observation, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Observations == nil {
		return nil, nil
	}
	src := m.Observations[domain]
	out := make([]model.Observation, len(src))
	copy(out, src)
	return out, nil
}

// Calls reports how many queries were issued.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
