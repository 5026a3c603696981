// Package history provides the InfluxDB-backed observation provider. The
// collection pipeline writes one point per LLM response into the
// observations measurement, tagged by domain; this provider reads them back
// for the engine.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	corehistory "github.com/brandsignal/foresight/core/history"
	"github.com/brandsignal/foresight/core/logger"
	"github.com/brandsignal/foresight/core/model"
	infralogger "github.com/brandsignal/foresight/infra/logger"
)

// Config holds the InfluxDB connection settings for the observation store.
type Config struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// LookbackDays bounds the Flux range; analysis windows are narrower
	// and applied downstream.
	LookbackDays int `json:"lookback_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 400
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Org == "" || c.Bucket == "" {
		return fmt.Errorf("org and bucket are required")
	}
	return nil
}

// InfluxProvider reads observation rows from InfluxDB via Flux queries.
type InfluxProvider struct {
	client influxdb2.Client
	query  api.QueryAPI
	cfg    Config
	log    logger.Logger
}

// NewInfluxProvider creates a provider for the configured endpoint.
func NewInfluxProvider(cfg Config) (*InfluxProvider, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("history influx config: %w", err)
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxProvider{
		client: client,
		query:  client.QueryAPI(cfg.Org),
		cfg:    cfg,
		log:    infralogger.New("influx-history"),
	}, nil
}

// Close releases the underlying client.
func (p *InfluxProvider) Close() {
	p.client.Close()
}

// Query returns the domain's observations, oldest first. Fields are pivoted
// out of the observations measurement; rows with a missing response are
// skipped.
func (p *InfluxProvider) Query(ctx context.Context, domain string) ([]model.Observation, error) {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == "observations" and r.domain == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`,
		p.cfg.Bucket, p.cfg.LookbackDays, domain)

	result, err := p.query.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("query observations for %s: %w", domain, err)
	}
	defer func() {
		if err := result.Close(); err != nil {
			p.log.Warnf("close query result: %v", err)
		}
	}()

	var out []model.Observation
	for result.Next() {
		rec := result.Record()
		resp, _ := rec.ValueByKey("response").(string)
		if resp == "" {
			continue
		}
		obs := model.Observation{
			Response:  resp,
			Timestamp: rec.Time(),
		}
		if v, ok := rec.ValueByKey("model").(string); ok {
			obs.Model = v
		}
		if v, ok := rec.ValueByKey("prompt_type").(string); ok {
			obs.PromptType = v
		}
		if v, ok := rec.ValueByKey("cohort").(string); ok {
			obs.Cohort = v
		}
		out = append(out, obs)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read observations for %s: %w", domain, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// NewInfluxProviderWithFallback health-checks the endpoint and falls back to
// the given provider when it is unreachable, so a missing backend degrades
// to empty history instead of failing startup.
func NewInfluxProviderWithFallback(cfg Config, fallback corehistory.Provider) corehistory.Provider {
	p, err := NewInfluxProvider(cfg)
	if err != nil {
		infralogger.New("influx-history").Errorf("influx provider: %v", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := p.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			p.log.Errorf("influx health check error: %v", err)
		} else {
			p.log.Errorf("influx health status: %s", health.Status)
		}
		p.client.Close()
		return fallback
	}
	return p
}
