package module

import (
	"context"
	"fmt"

	"github.com/brandsignal/foresight/core/model"
)

// defaultDisruptionCategories is searched when the request does not scope
// categories explicitly.
var defaultDisruptionCategories = []string{
	"product_launch",
	"pricing_shift",
	"narrative_attack",
	"channel_shift",
}

// categoryWeights bias the base likelihood per category: narrative attacks
// track volatility more closely than pricing moves do.
var categoryWeights = map[string]float64{
	"product_launch":   0.8,
	"pricing_shift":    0.6,
	"narrative_attack": 1.1,
	"channel_shift":    0.7,
}

// DisruptionModule predicts category-scoped disruption events from signal
// instability.
type DisruptionModule struct{}

func (DisruptionModule) ID() string { return model.ComponentDisruptions }

func (m DisruptionModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)
	categories := in.Config.Categories
	if len(categories) == 0 {
		categories = defaultDisruptionCategories
	}

	out := &model.DisruptionForecast{
		ResultMeta:  meta(m.ID(), in.Now),
		Domain:      in.Domain,
		Predictions: []model.Disruption{},
	}
	if len(obs) == 0 {
		return out, nil
	}

	_, ys := series(obs)
	momentum := momentumOf(ys)
	vol := volatilityOf(ys, in.Adjustment)
	// Instability drives disruption likelihood regardless of direction.
	base := clamp(vol+0.3*absf(momentum), 0, 1)

	for _, cat := range categories {
		w, ok := categoryWeights[cat]
		if !ok {
			w = 0.5
		}
		likelihood := clamp(base*w, 0, 0.95)
		if likelihood < 0.05 {
			continue
		}
		out.Predictions = append(out.Predictions, model.Disruption{
			Category:   cat,
			Likelihood: likelihood,
			Impact:     impactFor(likelihood),
			Window:     "60d",
			Rationale:  fmt.Sprintf("Signal volatility %.2f and momentum %.2f indicate instability in %s.", vol, momentum, cat),
		})
	}

	if in.Adjustment != nil {
		if impact := in.Adjustment.BrandTransitionImpact(); impact > 0.5 {
			out.Predictions = append(out.Predictions, model.Disruption{
				Category:   "rebrand_aftershock",
				Likelihood: impact,
				Impact:     impactFor(impact),
				Window:     "180d",
				Rationale:  fmt.Sprintf("Benchmark precedent %s (%s) predicts follow-on turbulence.", in.Adjustment.Domain, in.Adjustment.ShockType),
			})
		}
	}
	return out, nil
}

func impactFor(likelihood float64) string {
	switch {
	case likelihood > 0.7:
		return "high"
	case likelihood > 0.4:
		return "medium"
	default:
		return "low"
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
