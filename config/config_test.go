package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandsignal/foresight/core/model"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
cache:
  market_position_minutes: 15
batch:
  max_concurrency: 4
history:
  backend: memory
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Cache.MarketPositionMinutes)
	// Unset sections get defaults.
	assert.Equal(t, 30, cfg.Cache.ThreatWarningsMinutes)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrency)
	assert.Equal(t, 30, cfg.Batch.TimeoutSeconds)
	assert.Equal(t, ":9402", cfg.Metrics.PrometheusAddr)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"history":{"backend":"memory"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.History.Backend)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("config.toml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "config.yaml", "history:\n  backend: carrier-pigeon\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestInfluxBackendRequiresEndpoint(t *testing.T) {
	path := writeConfig(t, "config.yaml", "history:\n  backend: influx\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestCacheTTLsConfidenceAlwaysUncached(t *testing.T) {
	var c CacheConfig
	c.SetDefaults()
	ttls := c.TTLs()
	assert.Equal(t, time.Duration(0), ttls[model.ComponentConfidenceMetrics])
	assert.Equal(t, time.Hour, ttls[model.ComponentMarketPosition])
	assert.Equal(t, 2*time.Hour, ttls[model.ComponentDisruptions])
	assert.Equal(t, 90*time.Minute, ttls[model.ComponentTemporalAnalysis])
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "history:\n  backend: memory\n")
	t.Setenv("FS_BATCH__MAX_CONCURRENCY", "3")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrency)
}
