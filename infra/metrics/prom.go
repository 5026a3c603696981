package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/brandsignal/foresight/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	cacheLookups *prometheus.CounterVec
	moduleRuns   *prometheus.HistogramVec
	batchDomains *prometheus.CounterVec
	batchSeconds prometheus.Histogram
	cacheEntries prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_cache_lookups_total",
		Help: "Cache lookups by operation and outcome",
	}, []string{"operation", "hit"})
	runs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_module_run_seconds",
		Help:    "Prediction module execution latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "failed"})
	batchDomains := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_batch_domains_total",
		Help: "Domains processed by batch runs, by outcome",
	}, []string{"outcome"})
	batchSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediction_batch_run_seconds",
		Help:    "Total batch run duration",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	cacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prediction_cache_entries",
		Help: "Entries currently held by the TTL cache; growth is unbounded by design",
	})

	s := &PromSink{
		cacheLookups: lookups,
		moduleRuns:   runs,
		batchDomains: batchDomains,
		batchSeconds: batchSeconds,
		cacheEntries: cacheEntries,
	}
	for _, c := range []prometheus.Collector{lookups, runs, batchDomains, batchSeconds, cacheEntries} {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// register tolerates double registration so repeated sink construction
// against the global registerer does not fail.
func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RecordCacheLookup increments the lookup counter.
func (s *PromSink) RecordCacheLookup(l coremetrics.CacheLookup) error {
	s.cacheLookups.WithLabelValues(l.Operation, strconv.FormatBool(l.Hit)).Inc()
	return nil
}

// RecordModuleRun observes the run latency.
func (s *PromSink) RecordModuleRun(r coremetrics.ModuleRun) error {
	s.moduleRuns.WithLabelValues(r.Component, strconv.FormatBool(r.Failed)).Observe(r.Duration.Seconds())
	return nil
}

// RecordBatchRun counts per-domain outcomes and observes total duration.
func (s *PromSink) RecordBatchRun(b coremetrics.BatchRun) error {
	s.batchDomains.WithLabelValues("success").Add(float64(b.Size - b.Failures))
	s.batchDomains.WithLabelValues("failure").Add(float64(b.Failures))
	s.batchSeconds.Observe(b.Duration.Seconds())
	return nil
}

// RecordCacheSize gauges current cache occupancy.
func (s *PromSink) RecordCacheSize(entries int) error {
	s.cacheEntries.Set(float64(entries))
	return nil
}
