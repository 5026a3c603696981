package module

import (
	"context"
	"fmt"

	"github.com/brandsignal/foresight/core/model"
)

// AllocationModule recommends how to split effort across channels. The split
// shifts defensive when momentum is negative and offensive when positive.
type AllocationModule struct{}

func (AllocationModule) ID() string { return model.ComponentResourceAllocation }

func (m AllocationModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)

	momentum := 0.0
	if len(obs) > 0 {
		_, ys := series(obs)
		momentum = momentumOf(ys)
	}

	// Base shares, tilted by momentum: decline pushes budget toward PR and
	// reputation defense, growth toward content and product.
	defense := clamp(0.25-0.25*momentum, 0.05, 0.55)
	offense := clamp(0.30+0.20*momentum, 0.10, 0.50)
	rest := 1 - defense - offense

	items := []model.AllocationItem{
		{Channel: "pr_reputation", Share: round2(defense), Rationale: rationaleFor(momentum, true)},
		{Channel: "content_marketing", Share: round2(offense), Rationale: rationaleFor(momentum, false)},
		{Channel: "paid_search", Share: round2(rest * 0.5), Rationale: "Baseline demand capture."},
		{Channel: "social", Share: round2(rest * 0.3), Rationale: "Conversation presence floor."},
		{Channel: "product_comms", Share: round2(rest * 0.2), Rationale: "Sustains feature narrative."},
	}
	// Absorb rounding drift into the last item so shares sum to 1.
	var sum float64
	for _, it := range items[:len(items)-1] {
		sum += it.Share
	}
	items[len(items)-1].Share = round2(1 - sum)

	confidence := confidenceFrom(len(obs), in.Adjustment)
	if len(obs) == 0 {
		confidence = 0.1
	}
	return &model.ResourceAllocation{
		ResultMeta:      meta(m.ID(), in.Now),
		Domain:          in.Domain,
		Recommendations: items,
		ExpectedGain:    round2(clamp(0.05+0.15*absf(momentum), 0, 0.25)),
		Confidence:      confidence,
	}, nil
}

func rationaleFor(momentum float64, defensive bool) string {
	if defensive {
		if momentum < 0 {
			return fmt.Sprintf("Negative momentum (%.2f) calls for reputation defense.", momentum)
		}
		return "Maintenance-level reputation coverage."
	}
	if momentum > 0 {
		return fmt.Sprintf("Positive momentum (%.2f) rewards amplification.", momentum)
	}
	return "Steady-state content cadence."
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
