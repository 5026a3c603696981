package batch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/cache"
	"github.com/brandsignal/foresight/core/engine"
	"github.com/brandsignal/foresight/core/events"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/core/module"
	"github.com/brandsignal/foresight/internal/eventbus"
)

// slowHistory returns empty histories after a per-domain delay and counts
// queries per domain.
type slowHistory struct {
	delays map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func newSlowHistory(delays map[string]time.Duration) *slowHistory {
	return &slowHistory{delays: delays, calls: map[string]int{}}
}

func (s *slowHistory) Query(ctx context.Context, domain string) ([]model.Observation, error) {
	s.mu.Lock()
	s.calls[domain]++
	s.mu.Unlock()
	if d := s.delays[domain]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, nil
}

func (s *slowHistory) callsFor(domain string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[domain]
}

func newBatchRunner(t *testing.T, hist *slowHistory, bus eventbus.EventBus) (*Runner, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(cache.New(), hist, benchmark.NewProvider("", nil), module.DefaultRegistry(), nil, nil, nil)
	require.NoError(t, err)
	r, err := NewRunner(eng, nil, bus, nil)
	require.NoError(t, err)
	return r, eng
}

func TestNewRunnerRejectsNilEngine(t *testing.T) {
	_, err := NewRunner(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestRunPreservesInputOrder(t *testing.T) {
	// The slowest domain comes first so completion order inverts input order.
	hist := newSlowHistory(map[string]time.Duration{
		"a.com": 80 * time.Millisecond,
		"b.com": 40 * time.Millisecond,
		"c.com": 0,
	})
	r, _ := newBatchRunner(t, hist, nil)

	domains := []string{"a.com", "b.com", "c.com"}
	out := r.Run(context.Background(), domains, model.AnalysisConfig{
		MaxConcurrency:   3,
		TimeoutPerDomain: 2 * time.Second,
	})

	require.Len(t, out, len(domains))
	for i, domain := range domains {
		assert.Equal(t, domain, out[i].Domain)
		assert.True(t, out[i].Success, "domain %s should succeed", domain)
		require.NotNil(t, out[i].Data)
		assert.Equal(t, domain, out[i].Data.Domain)
	}
}

func TestRunTimeoutIsContained(t *testing.T) {
	hist := newSlowHistory(map[string]time.Duration{
		"slow.com": 300 * time.Millisecond,
	})
	r, _ := newBatchRunner(t, hist, nil)

	out := r.Run(context.Background(), []string{"slow.com", "fast.com"}, model.AnalysisConfig{
		MaxConcurrency:   2,
		TimeoutPerDomain: 50 * time.Millisecond,
	})

	require.Len(t, out, 2)

	slow := out[0]
	assert.Equal(t, "slow.com", slow.Domain)
	assert.False(t, slow.Success)
	require.NotNil(t, slow.Error)
	assert.Equal(t, model.ErrorKindTimeout, slow.Error.Kind)
	assert.Nil(t, slow.Data)

	fast := out[1]
	assert.True(t, fast.Success, "a timed-out neighbor must not drag healthy domains down")
}

func TestRunLateCompletionStillPopulatesCache(t *testing.T) {
	hist := newSlowHistory(map[string]time.Duration{
		"slow.com": 150 * time.Millisecond,
	})
	r, eng := newBatchRunner(t, hist, nil)

	cfg := model.AnalysisConfig{MaxConcurrency: 1, TimeoutPerDomain: 30 * time.Millisecond}
	out := r.Run(context.Background(), []string{"slow.com"}, cfg)
	require.False(t, out[0].Success)
	require.Equal(t, model.ErrorKindTimeout, out[0].Error.Kind)

	// The timed-out computation keeps running and finishes the cache write.
	time.Sleep(300 * time.Millisecond)
	queriesBefore := hist.callsFor("slow.com")

	dash, err := eng.GeneratePredictionDashboard(context.Background(), "slow.com", cfg)
	require.NoError(t, err)
	require.NotNil(t, dash)
	assert.Equal(t, queriesBefore, hist.callsFor("slow.com"),
		"the follow-up call should be served from the late-written cache entry")
}

func TestRunInvalidConfigFailsEveryDomain(t *testing.T) {
	hist := newSlowHistory(nil)
	r, _ := newBatchRunner(t, hist, nil)

	out := r.Run(context.Background(), []string{"a.com", "b.com"}, model.AnalysisConfig{
		Timeframe:        "2w",
		TimeoutPerDomain: time.Second,
	})

	require.Len(t, out, 2)
	for _, o := range out {
		assert.False(t, o.Success)
		require.NotNil(t, o.Error)
		assert.Equal(t, model.ErrorKindConfiguration, o.Error.Kind)
	}
}

func TestRunEmitsOneEventPerWave(t *testing.T) {
	hist := newSlowHistory(nil)
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	r, _ := newBatchRunner(t, hist, bus)
	out := r.Run(context.Background(), []string{"a.com", "b.com", "c.com"}, model.AnalysisConfig{
		MaxConcurrency:   1,
		TimeoutPerDomain: time.Second,
	})
	require.Len(t, out, 3)

	waves := 0
	for {
		select {
		case e := <-sub:
			if we, ok := e.(events.BatchWaveEvent); ok {
				waves++
				assert.Equal(t, 1, we.Domains)
				assert.Equal(t, 0, we.Failures)
			}
		default:
			assert.Equal(t, 3, waves, "one domain per wave at concurrency 1")
			return
		}
	}
}

func TestRunCancellationMarksRemainingDomains(t *testing.T) {
	hist := newSlowHistory(map[string]time.Duration{
		"a.com": 500 * time.Millisecond,
	})
	r, _ := newBatchRunner(t, hist, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	out := r.Run(ctx, []string{"a.com"}, model.AnalysisConfig{
		MaxConcurrency:   1,
		TimeoutPerDomain: 5 * time.Second,
	})

	require.Len(t, out, 1)
	assert.False(t, out[0].Success)
	require.NotNil(t, out[0].Error)
	assert.Equal(t, model.ErrorKindTimeout, out[0].Error.Kind)
}
