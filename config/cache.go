package config

import (
	"fmt"
	"time"

	"github.com/brandsignal/foresight/core/model"
)

// CacheConfig holds per-operation TTLs in minutes. Zero keeps the default;
// confidence scoring stays uncached regardless so it always reflects the
// latest inputs.
type CacheConfig struct {
	MarketPositionMinutes     int `json:"market_position_minutes"`
	ThreatWarningsMinutes     int `json:"threat_warnings_minutes"`
	BrandTrajectoryMinutes    int `json:"brand_trajectory_minutes"`
	DisruptionsMinutes        int `json:"disruptions_minutes"`
	ResourceAllocationMinutes int `json:"resource_allocation_minutes"`
	TemporalAnalysisMinutes   int `json:"temporal_analysis_minutes"`
	DashboardMinutes          int `json:"dashboard_minutes"`
}

// SetDefaults applies the standard TTLs.
func (c *CacheConfig) SetDefaults() {
	if c.MarketPositionMinutes == 0 {
		c.MarketPositionMinutes = 60
	}
	if c.ThreatWarningsMinutes == 0 {
		c.ThreatWarningsMinutes = 30
	}
	if c.BrandTrajectoryMinutes == 0 {
		c.BrandTrajectoryMinutes = 45
	}
	if c.DisruptionsMinutes == 0 {
		c.DisruptionsMinutes = 120
	}
	if c.ResourceAllocationMinutes == 0 {
		c.ResourceAllocationMinutes = 60
	}
	if c.TemporalAnalysisMinutes == 0 {
		c.TemporalAnalysisMinutes = 90
	}
	if c.DashboardMinutes == 0 {
		c.DashboardMinutes = 60
	}
}

// Validate rejects negative TTLs.
func (c CacheConfig) Validate() error {
	for name, v := range map[string]int{
		"market_position_minutes":     c.MarketPositionMinutes,
		"threat_warnings_minutes":     c.ThreatWarningsMinutes,
		"brand_trajectory_minutes":    c.BrandTrajectoryMinutes,
		"disruptions_minutes":         c.DisruptionsMinutes,
		"resource_allocation_minutes": c.ResourceAllocationMinutes,
		"temporal_analysis_minutes":   c.TemporalAnalysisMinutes,
		"dashboard_minutes":           c.DashboardMinutes,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// TTLs maps the configured minutes onto engine operations.
func (c CacheConfig) TTLs() map[string]time.Duration {
	return map[string]time.Duration{
		model.ComponentMarketPosition:     time.Duration(c.MarketPositionMinutes) * time.Minute,
		model.ComponentThreatWarnings:     time.Duration(c.ThreatWarningsMinutes) * time.Minute,
		model.ComponentBrandTrajectory:    time.Duration(c.BrandTrajectoryMinutes) * time.Minute,
		model.ComponentDisruptions:        time.Duration(c.DisruptionsMinutes) * time.Minute,
		model.ComponentResourceAllocation: time.Duration(c.ResourceAllocationMinutes) * time.Minute,
		model.ComponentConfidenceMetrics:  0,
		model.ComponentTemporalAnalysis:   time.Duration(c.TemporalAnalysisMinutes) * time.Minute,
		model.OperationDashboard:          time.Duration(c.DashboardMinutes) * time.Minute,
	}
}

// BatchConfig holds the batch runner defaults.
type BatchConfig struct {
	MaxConcurrency int `json:"max_concurrency"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *BatchConfig) SetDefaults() {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 10
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks bounds.
func (c BatchConfig) Validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	return nil
}
