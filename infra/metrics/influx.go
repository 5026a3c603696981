package metrics

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/brandsignal/foresight/core/logger"
	coremetrics "github.com/brandsignal/foresight/core/metrics"
	infralogger "github.com/brandsignal/foresight/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(url, token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing backend never blocks
// startup.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RecordCacheLookup writes one cache_lookup point.
func (s *InfluxSink) RecordCacheLookup(l coremetrics.CacheLookup) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("cache_lookup",
		map[string]string{"operation": l.Operation, "domain": l.Domain},
		map[string]interface{}{"hit": l.Hit},
		l.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordModuleRun writes one module_run point.
func (s *InfluxSink) RecordModuleRun(r coremetrics.ModuleRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fields := map[string]interface{}{
		"duration_ms": float64(r.Duration.Milliseconds()),
		"failed":      r.Failed,
	}
	if r.ErrorKind != "" {
		fields["error_kind"] = r.ErrorKind
	}
	p := influxdb2.NewPoint("module_run",
		map[string]string{"component": r.Component, "domain": r.Domain},
		fields,
		r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBatchRun writes one batch_run point.
func (s *InfluxSink) RecordBatchRun(b coremetrics.BatchRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("batch_run",
		map[string]string{"batch_id": b.ID},
		map[string]interface{}{
			"size":        b.Size,
			"failures":    b.Failures,
			"duration_ms": float64(b.Duration.Milliseconds()),
		},
		b.Time)
	return s.writeAPI.WritePoint(ctx, p)
}
