// Package metrics defines the sink interface the engine records observability
// data through. Implementations live under infra/metrics.
package metrics

import "time"

// CacheLookup describes one cache read on the engine's hot path.
type CacheLookup struct {
	Operation string
	Domain    string
	Hit       bool
	Time      time.Time
}

// ModuleRun describes one prediction module invocation.
type ModuleRun struct {
	Component string
	Domain    string
	Duration  time.Duration
	Failed    bool
	ErrorKind string
	Time      time.Time
}

// BatchRun summarizes one batch execution.
type BatchRun struct {
	ID       string
	Size     int
	Failures int
	Duration time.Duration
	Time     time.Time
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordCacheLookup(CacheLookup) error
	RecordModuleRun(ModuleRun) error
	RecordBatchRun(BatchRun) error
}

// CacheSizeRecorder is implemented by sinks that can gauge cache growth.
type CacheSizeRecorder interface {
	RecordCacheSize(entries int) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordCacheLookup(CacheLookup) error { return nil }
func (NopSink) RecordModuleRun(ModuleRun) error     { return nil }
func (NopSink) RecordBatchRun(BatchRun) error       { return nil }
