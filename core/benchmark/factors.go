package benchmark

import (
	"math"
	"strings"
	"time"
)

var severityConfidence = map[Severity]float64{
	SeverityCritical: 0.6,
	SeverityHigh:     0.7,
	SeverityMedium:   0.8,
	SeverityLow:      0.9,
}

var typeConfidence = map[string]float64{
	"brand_transition":        0.7,
	"corporate_restructure":   0.8,
	"ceo_transition":          0.6,
	"fraud_collapse":          0.5,
	"acquisition_integration": 0.8,
}

const defaultTypeConfidence = 0.8

var severityVolatility = map[Severity]float64{
	SeverityCritical: 1.8,
	SeverityHigh:     1.5,
	SeverityMedium:   1.2,
	SeverityLow:      1.0,
}

// baseDecayRate is 0.1 per year.
const baseDecayRate = 0.1

// ConfidenceModifier scales down confidence for domains that match a known
// shock case: severity multiplier times shock-type multiplier.
func (a Adjustment) ConfidenceModifier() float64 {
	sev, ok := severityConfidence[a.Severity]
	if !ok {
		sev = severityConfidence[SeverityMedium]
	}
	typ, ok := typeConfidence[a.ShockType]
	if !ok {
		typ = defaultTypeConfidence
	}
	return sev * typ
}

// VolatilityFactor widens expected signal swings by severity.
func (a Adjustment) VolatilityFactor() float64 {
	if v, ok := severityVolatility[a.Severity]; ok {
		return v
	}
	return 1.0
}

// MemoryDecayRate returns how quickly the shock's influence fades, decaying
// exponentially with the days elapsed since the transition. The reference
// time is supplied by the caller so the function stays pure.
func (a Adjustment) MemoryDecayRate(now time.Time) float64 {
	days := now.Sub(a.TransitionDate).Hours() / 24
	if days < 0 {
		days = 0
	}
	return baseDecayRate * math.Exp(-days/365)
}

// BrandTransitionImpact estimates how strongly a rebrand distorts the
// domain's observed signals.
func (a Adjustment) BrandTransitionImpact() float64 {
	t := strings.ToLower(a.ShockType)
	if strings.Contains(t, "brand_transition") || strings.Contains(t, "rebrand") {
		if a.Severity == SeverityCritical {
			return 0.9
		}
		return 0.6
	}
	return 0.1
}
