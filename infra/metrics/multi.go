package metrics

import coremetrics "github.com/brandsignal/foresight/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCacheLookup forwards the record, returning the first error.
func (m *MultiSink) RecordCacheLookup(l coremetrics.CacheLookup) error {
	for _, s := range m.Sinks {
		if err := s.RecordCacheLookup(l); err != nil {
			return err
		}
	}
	return nil
}

// RecordModuleRun forwards the record, returning the first error.
func (m *MultiSink) RecordModuleRun(r coremetrics.ModuleRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordModuleRun(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatchRun forwards the record, returning the first error.
func (m *MultiSink) RecordBatchRun(b coremetrics.BatchRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordBatchRun(b); err != nil {
			return err
		}
	}
	return nil
}

// RecordCacheSize forwards cache occupancy to sinks that support it.
func (m *MultiSink) RecordCacheSize(entries int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CacheSizeRecorder); ok {
			if err := rec.RecordCacheSize(entries); err != nil {
				return err
			}
		}
	}
	return nil
}
