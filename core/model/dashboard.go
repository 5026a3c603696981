package model

import "time"

// SeverityTier is the qualitative tier assigned by the narrative annotator.
type SeverityTier string

const (
	TierBloodbath  SeverityTier = "BLOODBATH"
	TierDomination SeverityTier = "DOMINATION"
	TierUprising   SeverityTier = "UPRISING"
	TierCollapse   SeverityTier = "COLLAPSE"
	TierStable     SeverityTier = "STABLE"
)

// Narrative is the deterministic qualitative reading of a dashboard.
type Narrative struct {
	Tier     SeverityTier `json:"tier"`
	Headline string       `json:"headline"`
	Verdict  string       `json:"verdict"`
}

// Component holds either a module result or an error marker, never both.
// A failed component still appears in Dashboard.Components.
type Component struct {
	Result ModuleResult `json:"result,omitempty"`
	Error  *ErrorMarker `json:"error,omitempty"`
}

// Failed reports whether the component carries an error marker.
func (c Component) Failed() bool { return c.Error != nil }

// Dashboard is the composite analytical result for one domain. Components
// contains one entry per enabled component, failed or not.
type Dashboard struct {
	Domain      string               `json:"domain"`
	GeneratedAt time.Time            `json:"generated_at"`
	Components  map[string]Component `json:"components"`
	Narrative   Narrative            `json:"narrative"`
}

// BatchOutcome is the per-domain record returned by the batch runner. It is
// created once per domain per batch call and never mutated after return.
type BatchOutcome struct {
	Domain  string       `json:"domain"`
	Success bool         `json:"success"`
	Data    *Dashboard   `json:"data,omitempty"`
	Error   *ErrorMarker `json:"error,omitempty"`
}
