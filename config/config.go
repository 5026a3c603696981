package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/brandsignal/foresight/infra/history"
)

// Config is the full service configuration.
type Config struct {
	Cache     CacheConfig     `json:"cache"`
	Batch     BatchConfig     `json:"batch"`
	Benchmark BenchmarkConfig `json:"benchmark"`
	History   HistoryConfig   `json:"history"`
	Metrics   MetricsConfig   `json:"metrics"`
}

// Load reads the configuration file (json or yaml by extension) and applies
// FS_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. FS_METRICS__PROMETHEUS_ADDR.
	if err := k.Load(env.Provider("FS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Cache.SetDefaults()
	cfg.Batch.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Cache.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Batch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HistoryConfig selects and configures the observation backend.
type HistoryConfig struct {
	// Backend selects the observation store: "memory" or "influx".
	Backend string         `json:"backend"`
	Influx  history.Config `json:"influx"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "influx" {
		c.Influx.SetDefaults()
	}
}

// Validate checks the backend selection.
func (c HistoryConfig) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "influx":
		return c.Influx.Validate()
	default:
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
}

// BenchmarkConfig points at the external shock-case dataset. An empty path
// selects the built-in cases.
type BenchmarkConfig struct {
	DatasetPath string `json:"dataset_path"`
}

// MetricsConfig configures the observability sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9402"
	}
}
