// Package batch runs dashboard generation across many domains in bounded
// concurrency waves with per-domain soft timeouts and order-preserving,
// partial-failure-tolerant aggregation.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brandsignal/foresight/core/engine"
	"github.com/brandsignal/foresight/core/events"
	"github.com/brandsignal/foresight/core/logger"
	"github.com/brandsignal/foresight/core/metrics"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/internal/eventbus"
)

const (
	defaultMaxConcurrency   = 10
	defaultTimeoutPerDomain = 30 * time.Second
)

// Runner wraps the engine for multi-domain execution. Run never returns an
// error: every domain yields a BatchOutcome, success or failure.
type Runner struct {
	engine *engine.Engine
	sink   metrics.Sink
	bus    eventbus.EventBus
	log    logger.Logger
}

// NewRunner creates a batch runner. Sink, bus and log may be nil.
func NewRunner(e *engine.Engine, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) (*Runner, error) {
	if e == nil {
		return nil, fmt.Errorf("batch: nil engine provided to NewRunner")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Runner{engine: e, sink: sink, bus: bus, log: log}, nil
}

// Run generates a dashboard per domain, in waves of the configured
// concurrency. The returned slice has one outcome per input domain, in input
// order, regardless of completion order.
//
// The per-domain timeout is soft: when it fires the outcome is marked failed
// and the wave moves on, but the underlying computation is not cancelled and
// may still finish and populate the cache afterwards. Callers must not read
// "timed out" as "never computed".
func (r *Runner) Run(ctx context.Context, domains []string, cfg model.AnalysisConfig) []model.BatchOutcome {
	batchID := uuid.NewString()
	start := time.Now()

	maxConc := cfg.MaxConcurrency
	if maxConc <= 0 {
		maxConc = defaultMaxConcurrency
	}
	timeout := cfg.TimeoutPerDomain
	if timeout <= 0 {
		timeout = defaultTimeoutPerDomain
	}

	outcomes := make([]model.BatchOutcome, len(domains))
	failures := 0
	wave := 0
	for lo := 0; lo < len(domains); lo += maxConc {
		hi := lo + maxConc
		if hi > len(domains) {
			hi = len(domains)
		}
		wave++
		waveFailures := r.runWave(ctx, domains[lo:hi], outcomes[lo:hi], cfg, timeout)
		failures += waveFailures
		if r.bus != nil {
			r.bus.Publish(events.BatchWaveEvent{
				BatchID:  batchID,
				Wave:     wave,
				Domains:  hi - lo,
				Failures: waveFailures,
				Time:     time.Now(),
			})
		}
	}

	dur := time.Since(start)
	r.log.Infof("batch %s: %d domains, %d failures in %s", batchID, len(domains), failures, dur)
	_ = r.sink.RecordBatchRun(metrics.BatchRun{
		ID:       batchID,
		Size:     len(domains),
		Failures: failures,
		Duration: dur,
		Time:     time.Now(),
	})
	return outcomes
}

// runWave dispatches every domain of the wave concurrently and settles each
// slot with a result or a failure marker. It returns the failure count.
func (r *Runner) runWave(ctx context.Context, domains []string, out []model.BatchOutcome, cfg model.AnalysisConfig, timeout time.Duration) int {
	var g errgroup.Group
	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			out[i] = r.runDomain(ctx, domain, cfg, timeout)
			// Outcomes are settled in place; a failed domain never
			// aborts its wave or later waves.
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, o := range out {
		if !o.Success {
			failures++
		}
	}
	return failures
}

// runDomain races one dashboard call against the per-domain timeout. The
// computation keeps the caller's context: a timeout discards the result
// without preempting the work.
func (r *Runner) runDomain(ctx context.Context, domain string, cfg model.AnalysisConfig, timeout time.Duration) model.BatchOutcome {
	type settled struct {
		dash *model.Dashboard
		err  error
	}
	done := make(chan settled, 1)
	go func() {
		dash, err := r.engine.GeneratePredictionDashboard(ctx, domain, cfg)
		done <- settled{dash: dash, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s := <-done:
		if s.err != nil {
			return model.BatchOutcome{
				Domain: domain,
				Error:  model.NewErrorMarker(s.err, time.Now()),
			}
		}
		return model.BatchOutcome{Domain: domain, Success: true, Data: s.dash}
	case <-timer.C:
		r.log.Warnf("domain %s exceeded %s budget, dropping result", domain, timeout)
		return model.BatchOutcome{
			Domain: domain,
			Error: &model.ErrorMarker{
				Kind:       model.ErrorKindTimeout,
				Message:    fmt.Sprintf("domain %s: %s budget exceeded", domain, timeout),
				OccurredAt: time.Now(),
			},
		}
	case <-ctx.Done():
		return model.BatchOutcome{
			Domain: domain,
			Error:  model.NewErrorMarker(fmt.Errorf("%w: batch canceled", model.ErrTimeout), time.Now()),
		}
	}
}
