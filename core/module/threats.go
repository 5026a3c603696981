package module

import (
	"context"
	"fmt"

	"github.com/brandsignal/foresight/core/model"
)

// ThreatWarningModule derives warnings from negative movement in the signal.
// Warnings below the configured risk threshold are dropped.
type ThreatWarningModule struct{}

func (ThreatWarningModule) ID() string { return model.ComponentThreatWarnings }

func (m ThreatWarningModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)
	out := &model.ThreatWarnings{
		ResultMeta:    meta(m.ID(), in.Now),
		Domain:        in.Domain,
		Warnings:      []model.ThreatWarning{},
		RiskThreshold: in.Config.RiskThreshold,
	}
	if len(obs) == 0 {
		// No data is not a fault; an empty warning set with a coverage
		// notice is the honest answer.
		out.Warnings = append(out.Warnings, model.ThreatWarning{
			Category:    "data_coverage",
			Severity:    "low",
			Probability: 0.3,
			Horizon:     "30d",
			Description: "No observations in the selected window; threat posture unknown.",
		})
		out.Warnings = filterByThreshold(out.Warnings, in.Config.RiskThreshold)
		return out, nil
	}

	_, ys := series(obs)
	momentum := momentumOf(ys)
	vol := volatilityOf(ys, in.Adjustment)

	var warnings []model.ThreatWarning
	if momentum < -0.1 {
		p := clamp(-momentum*(1+vol), 0, 0.95)
		warnings = append(warnings, model.ThreatWarning{
			Category:    "visibility_erosion",
			Severity:    severityFor(p),
			Probability: p,
			Horizon:     "30d",
			Description: fmt.Sprintf("Share of voice is slipping (momentum %.2f).", momentum),
		})
	}
	if neg := negativeShare(ys); neg > 0.4 {
		p := clamp(neg*(1+vol/2), 0, 0.95)
		warnings = append(warnings, model.ThreatWarning{
			Category:    "reputation_risk",
			Severity:    severityFor(p),
			Probability: p,
			Horizon:     "90d",
			Description: fmt.Sprintf("%.0f%% of recent observations read negative.", neg*100),
		})
	}
	if in.Adjustment != nil {
		if impact := in.Adjustment.BrandTransitionImpact(); impact > 0.5 {
			warnings = append(warnings, model.ThreatWarning{
				Category:    "rebrand_aftershock",
				Severity:    severityFor(impact),
				Probability: impact,
				Horizon:     "180d",
				Description: fmt.Sprintf("Domain matches the %s precedent; identity confusion persists after transitions of this kind.", in.Adjustment.ShockType),
			})
		}
	}

	out.Warnings = filterByThreshold(warnings, in.Config.RiskThreshold)
	return out, nil
}

func filterByThreshold(ws []model.ThreatWarning, threshold float64) []model.ThreatWarning {
	out := make([]model.ThreatWarning, 0, len(ws))
	for _, w := range ws {
		if w.Probability >= threshold {
			out = append(out, w)
		}
	}
	return out
}

func severityFor(p float64) string {
	switch {
	case p > 0.8:
		return "critical"
	case p > 0.6:
		return "high"
	case p > 0.4:
		return "medium"
	default:
		return "low"
	}
}

// negativeShare is the fraction of observations with a negative signal.
func negativeShare(ys []float64) float64 {
	if len(ys) == 0 {
		return 0
	}
	var n int
	for _, y := range ys {
		if y < 0 {
			n++
		}
	}
	return float64(n) / float64(len(ys))
}
