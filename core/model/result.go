package model

import "time"

// Component names used as registry keys, cache key prefixes and dashboard
// component map keys.
const (
	ComponentMarketPosition     = "market_position"
	ComponentThreatWarnings     = "threat_warnings"
	ComponentBrandTrajectory    = "brand_trajectory"
	ComponentDisruptions        = "disruptions"
	ComponentResourceAllocation = "resource_allocation"
	ComponentConfidenceMetrics  = "confidence_metrics"
	ComponentTemporalAnalysis   = "temporal_analysis"

	// OperationDashboard is the composite operation; it is not a registered
	// module but shares the cache key namespace with them.
	OperationDashboard = "dashboard"
)

// Components lists all module component names in canonical order.
func Components() []string {
	return []string{
		ComponentMarketPosition,
		ComponentThreatWarnings,
		ComponentBrandTrajectory,
		ComponentDisruptions,
		ComponentResourceAllocation,
		ComponentConfidenceMetrics,
		ComponentTemporalAnalysis,
	}
}

// ModuleResult is the closed union of per-module analytical results. Each
// variant embeds ResultMeta and is produced by exactly one prediction module.
type ModuleResult interface {
	Component() string
	When() time.Time
}

// ResultMeta carries the fields common to every module result.
type ResultMeta struct {
	ModuleID    string    `json:"module_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (m ResultMeta) Component() string { return m.ModuleID }
func (m ResultMeta) When() time.Time   { return m.GeneratedAt }

// MarketPosition scores the domain's current competitive standing.
type MarketPosition struct {
	ResultMeta
	Domain     string  `json:"domain"`
	Score      float64 `json:"score"`      // 0..100
	Percentile float64 `json:"percentile"` // 0..1 within cohort
	Momentum   float64 `json:"momentum"`   // -1..1
	Trend      string  `json:"trend"`      // rising, declining, flat
	SampleSize int     `json:"sample_size"`
	Confidence float64 `json:"confidence"` // 0..1
	// Narrative is attached by the orchestrator, not the module.
	Narrative *Narrative `json:"narrative,omitempty"`
}

// ThreatWarning is a single warning entry.
type ThreatWarning struct {
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Probability float64 `json:"probability"`
	Horizon     string  `json:"horizon"`
	Description string  `json:"description"`
}

// ThreatWarnings carries the warnings above the configured risk threshold.
type ThreatWarnings struct {
	ResultMeta
	Domain        string          `json:"domain"`
	Warnings      []ThreatWarning `json:"warnings"`
	RiskThreshold float64         `json:"risk_threshold"`
}

// TrajectoryPoint is one projected score at a future offset.
type TrajectoryPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// BrandTrajectory describes the fitted direction of the domain's signal.
type BrandTrajectory struct {
	ResultMeta
	Domain     string            `json:"domain"`
	Direction  string            `json:"direction"` // upward, downward, stable
	Slope      float64           `json:"slope"`     // score units per day
	Volatility float64           `json:"volatility"`
	Projection []TrajectoryPoint `json:"projection"`
	Confidence float64           `json:"confidence"`
	// Narrative is attached by the orchestrator, not the module.
	Narrative *Narrative `json:"narrative,omitempty"`
}

// Disruption is one predicted disruption event.
type Disruption struct {
	Category   string  `json:"category"`
	Likelihood float64 `json:"likelihood"`
	Impact     string  `json:"impact"`
	Window     string  `json:"window"`
	Rationale  string  `json:"rationale"`
}

// DisruptionForecast carries predicted disruptions scoped to the requested
// categories.
type DisruptionForecast struct {
	ResultMeta
	Domain      string       `json:"domain"`
	Predictions []Disruption `json:"predictions"`
}

// AllocationItem is one recommended spend share.
type AllocationItem struct {
	Channel   string  `json:"channel"`
	Share     float64 `json:"share"` // 0..1, shares sum to 1
	Rationale string  `json:"rationale"`
}

// ResourceAllocation recommends how to distribute effort across channels.
type ResourceAllocation struct {
	ResultMeta
	Domain          string           `json:"domain"`
	Recommendations []AllocationItem `json:"recommendations"`
	ExpectedGain    float64          `json:"expected_gain"`
	Confidence      float64          `json:"confidence"`
}

// ConfidenceMetrics quantifies how much the other signals can be trusted.
// It is never cached; confidence must reflect the latest inputs.
type ConfidenceMetrics struct {
	ResultMeta
	Domain         string  `json:"domain"`
	Overall        float64 `json:"overall"`
	DataQuality    float64 `json:"data_quality"`
	ModelAgreement float64 `json:"model_agreement"`
	SampleSize     int     `json:"sample_size"`
	Trend          string  `json:"trend,omitempty"`
}

// TemporalAnalysis describes how the signal evolves over the selected window.
type TemporalAnalysis struct {
	ResultMeta
	Domain       string      `json:"domain"`
	Window       string      `json:"window"`
	Trend        string      `json:"trend"`
	Seasonality  float64     `json:"seasonality"`
	ChangePoints []time.Time `json:"change_points,omitempty"`
	MemoryDecay  float64     `json:"memory_decay"`
}
