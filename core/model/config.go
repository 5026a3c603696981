package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Timeframe tokens recognized by AnalysisConfig.Window.
var timeframes = map[string]time.Duration{
	"24h":  24 * time.Hour,
	"7d":   7 * 24 * time.Hour,
	"30d":  30 * 24 * time.Hour,
	"90d":  90 * 24 * time.Hour,
	"180d": 180 * 24 * time.Hour,
	"1y":   365 * 24 * time.Hour,
}

const defaultTimeframe = "30d"

// AnalysisConfig holds the recognized per-request options. The zero value is
// valid: default timeframe, no category scoping, all dashboard components
// enabled.
type AnalysisConfig struct {
	Timeframe         string        `json:"timeframe"`
	Categories        []string      `json:"categories"`
	IncludeConfidence bool          `json:"include_confidence"`
	IncludeTrends     bool          `json:"include_trends"`
	RiskThreshold     float64       `json:"risk_threshold"`
	MaxConcurrency    int           `json:"max_concurrency"`
	TimeoutPerDomain  time.Duration `json:"timeout_per_domain"`

	IncludeMarketPosition       bool `json:"include_market_position"`
	IncludeThreatWarnings       bool `json:"include_threat_warnings"`
	IncludeBrandTrajectory      bool `json:"include_brand_trajectory"`
	IncludeDisruptions          bool `json:"include_disruptions"`
	IncludeResourceOptimization bool `json:"include_resource_optimization"`
	IncludeConfidenceMetrics    bool `json:"include_confidence_metrics"`
	IncludeTemporalAnalysis     bool `json:"include_temporal_analysis"`
}

// Validate checks the recognized options. Unknown timeframe tokens and
// out-of-range values are configuration errors.
func (c AnalysisConfig) Validate() error {
	if c.Timeframe != "" {
		if _, ok := timeframes[c.Timeframe]; !ok {
			return fmt.Errorf("%w: unknown timeframe %q", ErrConfiguration, c.Timeframe)
		}
	}
	if c.RiskThreshold < 0 || c.RiskThreshold > 1 {
		return fmt.Errorf("%w: risk_threshold %v out of [0,1]", ErrConfiguration, c.RiskThreshold)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: max_concurrency must not be negative", ErrConfiguration)
	}
	if c.TimeoutPerDomain < 0 {
		return fmt.Errorf("%w: timeout_per_domain must not be negative", ErrConfiguration)
	}
	return nil
}

// Window returns the historical window selected by the timeframe token.
func (c AnalysisConfig) Window() (time.Duration, error) {
	tf := c.Timeframe
	if tf == "" {
		tf = defaultTimeframe
	}
	d, ok := timeframes[tf]
	if !ok {
		return 0, fmt.Errorf("%w: unknown timeframe %q", ErrConfiguration, tf)
	}
	return d, nil
}

// EnabledComponents returns the dashboard components selected by the include
// flags, in canonical order. With no flag set, every component is enabled.
func (c AnalysisConfig) EnabledComponents() []string {
	flags := map[string]bool{
		ComponentMarketPosition:     c.IncludeMarketPosition,
		ComponentThreatWarnings:     c.IncludeThreatWarnings,
		ComponentBrandTrajectory:    c.IncludeBrandTrajectory,
		ComponentDisruptions:        c.IncludeDisruptions,
		ComponentResourceAllocation: c.IncludeResourceOptimization,
		ComponentConfidenceMetrics:  c.IncludeConfidenceMetrics,
		ComponentTemporalAnalysis:   c.IncludeTemporalAnalysis,
	}
	any := false
	for _, v := range flags {
		if v {
			any = true
			break
		}
	}
	var out []string
	for _, name := range Components() {
		if !any || flags[name] {
			out = append(out, name)
		}
	}
	return out
}

// Normalize renders the options that affect analytical output as a canonical
// string, so semantically equal configs produce identical cache keys. Batch
// scheduling options (max_concurrency, timeout_per_domain) are excluded: they
// do not change what is computed.
func (c AnalysisConfig) Normalize() string {
	cats := append([]string(nil), c.Categories...)
	sort.Strings(cats)
	tf := c.Timeframe
	if tf == "" {
		tf = defaultTimeframe
	}
	var b strings.Builder
	b.WriteString("tf=")
	b.WriteString(tf)
	b.WriteString(";cat=")
	b.WriteString(strings.Join(cats, ","))
	b.WriteString(";conf=")
	b.WriteString(strconv.FormatBool(c.IncludeConfidence))
	b.WriteString(";trend=")
	b.WriteString(strconv.FormatBool(c.IncludeTrends))
	b.WriteString(";risk=")
	b.WriteString(strconv.FormatFloat(c.RiskThreshold, 'f', -1, 64))
	b.WriteString(";inc=")
	b.WriteString(strings.Join(c.EnabledComponents(), ","))
	return b.String()
}
