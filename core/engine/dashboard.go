package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brandsignal/foresight/core/events"
	"github.com/brandsignal/foresight/core/metrics"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/core/module"
	"github.com/brandsignal/foresight/core/narrative"
)

// GeneratePredictionDashboard composes the enabled components into one
// dashboard. Enabled modules run concurrently with an isolate-and-continue
// join: a failing component yields an error marker in its map slot while the
// others return full results. Only configuration errors fail the whole call.
func (e *Engine) GeneratePredictionDashboard(ctx context.Context, domain string, cfg model.AnalysisConfig) (*model.Dashboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", domain, err)
	}
	ttl := e.ttl(model.OperationDashboard)
	key := cacheKey(model.OperationDashboard, domain, cfg)
	if ttl > 0 {
		if dash, ok := e.lookupDashboard(key, domain); ok {
			return dash, nil
		}
	}

	enabled := cfg.EnabledComponents()
	now := e.clock()()
	components := make(map[string]model.Component, len(enabled))

	in, gerr := e.gather(ctx, domain, cfg)
	if gerr != nil {
		// The shared fetch failed, so every enabled component gets the
		// same marker; the dashboard itself still returns.
		marker := model.NewErrorMarker(gerr, now)
		for _, name := range enabled {
			components[name] = model.Component{Error: marker}
		}
	} else {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range enabled {
			name := name
			g.Go(func() error {
				comp := e.runComponent(gctx, name, in)
				mu.Lock()
				components[name] = comp
				mu.Unlock()
				// Failures are settled into markers, never returned:
				// one component must not cancel its siblings.
				return nil
			})
		}
		_ = g.Wait()
	}

	dash := &model.Dashboard{
		Domain:      domain,
		GeneratedAt: now,
		Components:  components,
		Narrative:   e.dashboardNarrative(components, now),
	}
	if ttl > 0 {
		e.store(key, dash, ttl)
	}
	return dash, nil
}

func (e *Engine) runComponent(ctx context.Context, name string, in module.Input) model.Component {
	mod, ok := e.registry.Get(name)
	if !ok {
		err := fmt.Errorf("%w: unknown component %s", model.ErrConfiguration, name)
		return model.Component{Error: model.NewErrorMarker(err, e.clock()())}
	}
	res, err := e.invoke(ctx, mod, in)
	if err != nil {
		return model.Component{Error: model.NewErrorMarker(err, e.clock()())}
	}
	e.annotate(res)
	return model.Component{Result: res}
}

// lookupDashboard mirrors lookup for the composite operation. A corrupted
// entry degrades to a miss.
func (e *Engine) lookupDashboard(key, domain string) (*model.Dashboard, bool) {
	v, ok := e.cache.Get(key)
	var dash *model.Dashboard
	hit := false
	if ok {
		dash, hit = v.(*model.Dashboard)
		if !hit {
			e.log.Warnf("corrupted cache entry for dashboard %s, recomputing", domain)
			e.cache.Invalidate(key)
		}
	}
	_ = e.sink.RecordCacheLookup(metrics.CacheLookup{Operation: model.OperationDashboard, Domain: domain, Hit: hit, Time: e.clock()()})
	if e.bus != nil {
		e.bus.Publish(events.CacheEvent{Operation: model.OperationDashboard, Domain: domain, Hit: hit, Time: e.clock()()})
	}
	return dash, hit
}

// dashboardNarrative derives the dashboard-level narrative from whichever
// momentum and confidence signals the enabled components produced.
func (e *Engine) dashboardNarrative(components map[string]model.Component, now time.Time) model.Narrative {
	momentum := 0.0
	confidence := 0.5

	if c, ok := components[model.ComponentMarketPosition]; ok && !c.Failed() {
		if mp, ok := c.Result.(*model.MarketPosition); ok {
			momentum = mp.Momentum
			confidence = mp.Confidence
		}
	} else if c, ok := components[model.ComponentBrandTrajectory]; ok && !c.Failed() {
		if tr, ok := c.Result.(*model.BrandTrajectory); ok {
			momentum = slopeMomentum(tr.Slope)
			confidence = tr.Confidence
		}
	}
	if c, ok := components[model.ComponentConfidenceMetrics]; ok && !c.Failed() {
		if cm, ok := c.Result.(*model.ConfidenceMetrics); ok {
			confidence = cm.Overall
		}
	}
	return narrative.Annotate(narrative.Metrics{Momentum: momentum, Confidence: confidence, GeneratedAt: now})
}
