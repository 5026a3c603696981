package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/brandsignal/foresight/core/metrics"
)

func TestPromSinkRecordsCacheLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordCacheLookup(coremetrics.CacheLookup{Operation: "market_position", Hit: true}))
	require.NoError(t, sink.RecordCacheLookup(coremetrics.CacheLookup{Operation: "market_position", Hit: true}))
	require.NoError(t, sink.RecordCacheLookup(coremetrics.CacheLookup{Operation: "market_position", Hit: false}))

	hits := testutil.ToFloat64(sink.cacheLookups.WithLabelValues("market_position", "true"))
	misses := testutil.ToFloat64(sink.cacheLookups.WithLabelValues("market_position", "false"))
	assert.Equal(t, 2.0, hits)
	assert.Equal(t, 1.0, misses)
}

func TestPromSinkRecordsBatchOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordBatchRun(coremetrics.BatchRun{Size: 10, Failures: 3, Duration: time.Second}))

	assert.Equal(t, 7.0, testutil.ToFloat64(sink.batchDomains.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.batchDomains.WithLabelValues("failure")))
}

func TestPromSinkRecordsCacheSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordCacheSize(42))
	assert.Equal(t, 42.0, testutil.ToFloat64(sink.cacheEntries))
}

func TestPromSinkToleratesDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err)
}

// countingSink counts forwarded records and optionally supports cache size.
type countingSink struct {
	lookups, runs, batches, sizes int
}

func (c *countingSink) RecordCacheLookup(coremetrics.CacheLookup) error { c.lookups++; return nil }
func (c *countingSink) RecordModuleRun(coremetrics.ModuleRun) error    { c.runs++; return nil }
func (c *countingSink) RecordBatchRun(coremetrics.BatchRun) error      { c.batches++; return nil }
func (c *countingSink) RecordCacheSize(int) error                      { c.sizes++; return nil }

// plainSink has no cache size support.
type plainSink struct {
	lookups int
}

func (p *plainSink) RecordCacheLookup(coremetrics.CacheLookup) error { p.lookups++; return nil }
func (p *plainSink) RecordModuleRun(coremetrics.ModuleRun) error     { return nil }
func (p *plainSink) RecordBatchRun(coremetrics.BatchRun) error       { return nil }

func TestMultiSinkFansOut(t *testing.T) {
	a := &countingSink{}
	b := &plainSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordCacheLookup(coremetrics.CacheLookup{}))
	require.NoError(t, m.RecordModuleRun(coremetrics.ModuleRun{}))
	require.NoError(t, m.RecordBatchRun(coremetrics.BatchRun{}))

	assert.Equal(t, 1, a.lookups)
	assert.Equal(t, 1, a.runs)
	assert.Equal(t, 1, a.batches)
	assert.Equal(t, 1, b.lookups)
}

func TestMultiSinkSkipsSinksWithoutCacheSizeSupport(t *testing.T) {
	a := &countingSink{}
	b := &plainSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordCacheSize(7))
	assert.Equal(t, 1, a.sizes)
}
