// Package engine implements the prediction orchestrator: one operation per
// analytical module plus the composite dashboard, with read-through TTL
// caching, context enrichment and narrative annotation.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/cache"
	"github.com/brandsignal/foresight/core/events"
	"github.com/brandsignal/foresight/core/history"
	"github.com/brandsignal/foresight/core/logger"
	"github.com/brandsignal/foresight/core/metrics"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/core/module"
	"github.com/brandsignal/foresight/core/narrative"
	"github.com/brandsignal/foresight/internal/eventbus"
)

// Engine composes prediction modules into per-domain results. The cache and
// benchmark provider are injected shared collaborators; the engine holds no
// per-call state.
type Engine struct {
	cache    *cache.Cache
	history  history.Provider
	bench    *benchmark.Provider
	registry *module.Registry
	sink     metrics.Sink
	bus      eventbus.EventBus
	log      logger.Logger

	mu   sync.Mutex
	ttls map[string]time.Duration
	now  func() time.Time
}

func defaultTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		model.ComponentMarketPosition:     time.Hour,
		model.ComponentThreatWarnings:     30 * time.Minute,
		model.ComponentBrandTrajectory:    45 * time.Minute,
		model.ComponentDisruptions:        2 * time.Hour,
		model.ComponentResourceAllocation: time.Hour,
		model.ComponentConfidenceMetrics:  0, // always fresh
		model.ComponentTemporalAnalysis:   90 * time.Minute,
		model.OperationDashboard:          time.Hour,
	}
}

// New creates an engine. Cache, history provider, benchmark provider and
// registry are mandatory; sink, bus and log may be nil.
func New(c *cache.Cache, hist history.Provider, bench *benchmark.Provider, reg *module.Registry, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) (*Engine, error) {
	if c == nil || hist == nil || bench == nil || reg == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{
		cache:    c,
		history:  hist,
		bench:    bench,
		registry: reg,
		sink:     sink,
		bus:      bus,
		log:      log,
		ttls:     defaultTTLs(),
		now:      time.Now,
	}, nil
}

// SetTTLs overrides cache TTLs per operation. Unknown keys are ignored; a
// zero duration disables caching for that operation.
func (e *Engine) SetTTLs(ttls map[string]time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for op := range e.ttls {
		if d, ok := ttls[op]; ok {
			e.ttls[op] = d
		}
	}
}

// SetClock replaces the engine's time source. Tests use this together with
// cache.NewWithClock to simulate TTL expiry.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	e.now = now
	e.mu.Unlock()
}

// Components lists the component names available for dashboard composition.
func (e *Engine) Components() []string { return e.registry.Components() }

func (e *Engine) ttl(op string) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ttls[op]
}

func (e *Engine) clock() func() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// PredictMarketPosition scores the domain's competitive standing.
func (e *Engine) PredictMarketPosition(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.MarketPosition, error) {
	res, err := e.run(ctx, model.ComponentMarketPosition, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.MarketPosition](model.ComponentMarketPosition, domain, res)
}

// GenerateThreatWarnings returns warnings above the configured risk threshold.
func (e *Engine) GenerateThreatWarnings(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.ThreatWarnings, error) {
	res, err := e.run(ctx, model.ComponentThreatWarnings, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.ThreatWarnings](model.ComponentThreatWarnings, domain, res)
}

// AnalyzeBrandTrajectory fits and projects the domain's signal trend.
func (e *Engine) AnalyzeBrandTrajectory(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.BrandTrajectory, error) {
	res, err := e.run(ctx, model.ComponentBrandTrajectory, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.BrandTrajectory](model.ComponentBrandTrajectory, domain, res)
}

// PredictDisruptions forecasts category-scoped disruption events.
func (e *Engine) PredictDisruptions(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.DisruptionForecast, error) {
	res, err := e.run(ctx, model.ComponentDisruptions, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.DisruptionForecast](model.ComponentDisruptions, domain, res)
}

// OptimizeResourceAllocation recommends channel spend shares.
func (e *Engine) OptimizeResourceAllocation(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.ResourceAllocation, error) {
	res, err := e.run(ctx, model.ComponentResourceAllocation, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.ResourceAllocation](model.ComponentResourceAllocation, domain, res)
}

// CalculateConfidenceScore quantifies signal trustworthiness. Never cached.
func (e *Engine) CalculateConfidenceScore(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.ConfidenceMetrics, error) {
	res, err := e.run(ctx, model.ComponentConfidenceMetrics, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.ConfidenceMetrics](model.ComponentConfidenceMetrics, domain, res)
}

// PerformTemporalAnalysis describes how the signal evolves over the window.
func (e *Engine) PerformTemporalAnalysis(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.TemporalAnalysis, error) {
	res, err := e.run(ctx, model.ComponentTemporalAnalysis, domain, cfg)
	if err != nil {
		return nil, err
	}
	return assertResult[*model.TemporalAnalysis](model.ComponentTemporalAnalysis, domain, res)
}

func assertResult[T model.ModuleResult](op, domain string, res model.ModuleResult) (T, error) {
	typed, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: unexpected result type %T", op, domain, res)
	}
	return typed, nil
}

// run is the shared single-operation path: cache read-through, data
// gathering, module invocation, annotation, cache store. Errors are wrapped
// with operation and domain context and propagate to the caller.
func (e *Engine) run(ctx context.Context, component, domain string, cfg model.AnalysisConfig) (model.ModuleResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", component, domain, err)
	}
	ttl := e.ttl(component)
	key := cacheKey(component, domain, cfg)
	if ttl > 0 {
		if res, ok := e.lookup(key, component, domain); ok {
			return res, nil
		}
	}

	mod, ok := e.registry.Get(component)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w: unknown component", component, domain, model.ErrConfiguration)
	}
	in, err := e.gather(ctx, domain, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", component, domain, err)
	}
	res, err := e.invoke(ctx, mod, in)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", component, domain, err)
	}
	e.annotate(res)
	if ttl > 0 {
		e.store(key, res, ttl)
	}
	return res, nil
}

// lookup reads the cache and validates the stored payload. Corrupted entries
// degrade to a miss and are invalidated so the caller recomputes.
func (e *Engine) lookup(key, component, domain string) (model.ModuleResult, bool) {
	v, ok := e.cache.Get(key)
	hit := false
	var res model.ModuleResult
	if ok {
		res, hit = v.(model.ModuleResult)
		if hit && res.Component() != component {
			hit = false
		}
		if !hit {
			e.log.Warnf("corrupted cache entry for %s %s, recomputing", component, domain)
			e.cache.Invalidate(key)
		}
	}
	_ = e.sink.RecordCacheLookup(metrics.CacheLookup{Operation: component, Domain: domain, Hit: hit, Time: e.clock()()})
	if e.bus != nil {
		e.bus.Publish(events.CacheEvent{Operation: component, Domain: domain, Hit: hit, Time: e.clock()()})
	}
	if !hit {
		return nil, false
	}
	return res, true
}

func (e *Engine) store(key string, value any, ttl time.Duration) {
	e.cache.Set(key, value, ttl)
	if rec, ok := e.sink.(metrics.CacheSizeRecorder); ok {
		if err := rec.RecordCacheSize(e.cache.Len()); err != nil {
			e.log.Errorf("cache size metrics error: %v", err)
		}
	}
}

// gather fetches historical observations and the benchmark adjustment
// concurrently. A failing history backend is a DataUnavailable error; a
// missing benchmark case is a valid absence.
func (e *Engine) gather(ctx context.Context, domain string, cfg model.AnalysisConfig) (module.Input, error) {
	in := module.Input{Domain: domain, Config: cfg, Now: e.clock()()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.history.Query(gctx, domain)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
		}
		in.History = rows
		return nil
	})
	g.Go(func() error {
		if adj, ok := e.bench.Lookup(domain); ok {
			in.Adjustment = &adj
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return module.Input{}, err
	}
	return in, nil
}

// invoke runs one module and records timing and outcome.
func (e *Engine) invoke(ctx context.Context, mod module.Module, in module.Input) (model.ModuleResult, error) {
	start := time.Now()
	res, err := mod.Compute(ctx, in)
	dur := time.Since(start)

	kind := ""
	if err != nil {
		kind = string(model.Classify(err))
	}
	_ = e.sink.RecordModuleRun(metrics.ModuleRun{
		Component: mod.ID(),
		Domain:    in.Domain,
		Duration:  dur,
		Failed:    err != nil,
		ErrorKind: kind,
		Time:      e.clock()(),
	})
	if e.bus != nil {
		e.bus.Publish(events.ModuleEvent{Component: mod.ID(), Domain: in.Domain, Duration: dur, Err: err, Time: e.clock()()})
	}
	if err != nil {
		e.log.Warnf("module %s failed for %s: %v", mod.ID(), in.Domain, err)
		return nil, err
	}
	return res, nil
}

// annotate attaches a narrative to results that expose momentum and
// confidence. Other result kinds carry no narrative of their own.
func (e *Engine) annotate(res model.ModuleResult) {
	switch r := res.(type) {
	case *model.MarketPosition:
		n := narrative.Annotate(narrative.Metrics{Momentum: r.Momentum, Confidence: r.Confidence, GeneratedAt: r.GeneratedAt})
		r.Narrative = &n
	case *model.BrandTrajectory:
		n := narrative.Annotate(narrative.Metrics{Momentum: slopeMomentum(r.Slope), Confidence: r.Confidence, GeneratedAt: r.GeneratedAt})
		r.Narrative = &n
	}
}

// slopeMomentum maps a score-per-day slope onto the [-1,1] momentum scale.
// Five score points per day saturates the scale.
func slopeMomentum(slope float64) float64 {
	m := slope / 5
	if m > 1 {
		return 1
	}
	if m < -1 {
		return -1
	}
	return m
}
