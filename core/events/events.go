// Package events defines the typed events the engine and batch runner emit
// on the internal event bus.
package events

import "time"

// CacheEvent reports the outcome of one cache lookup.
type CacheEvent struct {
	Operation string
	Domain    string
	Hit       bool
	Time      time.Time
}

// ModuleEvent reports one prediction module invocation.
type ModuleEvent struct {
	Component string
	Domain    string
	Duration  time.Duration
	Err       error
	Time      time.Time
}

// BatchWaveEvent reports completion of one batch wave.
type BatchWaveEvent struct {
	BatchID  string
	Wave     int
	Domains  int
	Failures int
	Time     time.Time
}
