// Package app assembles the prediction service from configuration: cache,
// benchmark provider, history backend, metrics sinks, engine and batch
// runner.
package app

import (
	"context"
	"fmt"

	"github.com/brandsignal/foresight/config"
	"github.com/brandsignal/foresight/core/batch"
	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/cache"
	"github.com/brandsignal/foresight/core/engine"
	"github.com/brandsignal/foresight/core/events"
	corehistory "github.com/brandsignal/foresight/core/history"
	coremetrics "github.com/brandsignal/foresight/core/metrics"
	"github.com/brandsignal/foresight/core/module"
	infrahistory "github.com/brandsignal/foresight/infra/history"
	"github.com/brandsignal/foresight/infra/logger"
	"github.com/brandsignal/foresight/infra/metrics"
	"github.com/brandsignal/foresight/internal/eventbus"
)

// Service owns the assembled prediction stack.
type Service struct {
	cfg    *config.Config
	engine *engine.Engine
	batch  *batch.Runner
	bus    *eventbus.Bus
	log    logger.Logger
}

// New builds a service from configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("foresight")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var hist corehistory.Provider = corehistory.NewMemoryStore()
	if cfg.History.Backend == "influx" {
		hist = infrahistory.NewInfluxProviderWithFallback(cfg.History.Influx, hist)
	}

	bus := eventbus.New()
	go logEvents(bus.Subscribe(), logger.New("events"))
	bench := benchmark.NewProvider(cfg.Benchmark.DatasetPath, logger.New("benchmark"))

	eng, err := engine.New(cache.New(), hist, bench, module.DefaultRegistry(), sink, bus, logger.New("engine"))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	eng.SetTTLs(cfg.Cache.TTLs())

	runner, err := batch.NewRunner(eng, sink, bus, logger.New("batch"))
	if err != nil {
		return nil, fmt.Errorf("batch runner: %w", err)
	}

	return &Service{cfg: cfg, engine: eng, batch: runner, bus: bus, log: log}, nil
}

// Engine exposes the orchestrator.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Batch exposes the batch runner.
func (s *Service) Batch() *batch.Runner { return s.batch }

// Run starts the metrics endpoint when enabled and blocks until the context
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}

// logEvents drains the bus into debug logs until the bus is closed.
func logEvents(ch <-chan eventbus.Event, log logger.Logger) {
	for e := range ch {
		switch ev := e.(type) {
		case events.CacheEvent:
			log.Debugw("cache lookup", map[string]any{
				"operation": ev.Operation, "domain": ev.Domain, "hit": ev.Hit,
			})
		case events.ModuleEvent:
			fields := map[string]any{
				"component": ev.Component, "domain": ev.Domain, "duration": ev.Duration.String(),
			}
			if ev.Err != nil {
				fields["error"] = ev.Err.Error()
			}
			log.Debugw("module run", fields)
		case events.BatchWaveEvent:
			log.Debugw("batch wave", map[string]any{
				"batch_id": ev.BatchID, "wave": ev.Wave,
				"domains": ev.Domains, "failures": ev.Failures,
			})
		}
	}
}
