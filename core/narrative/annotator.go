// Package narrative maps quantitative dashboard metrics to a qualitative
// severity tier and template text. Annotate is pure: the same metrics always
// produce the same narrative, and time comes from the supplied stamp, never
// the wall clock.
package narrative

import (
	"fmt"
	"time"

	"github.com/brandsignal/foresight/core/model"
)

// Metrics are the two inputs to tier selection plus the caller's timestamp.
type Metrics struct {
	Momentum    float64 // -1..1
	Confidence  float64 // 0..1
	GeneratedAt time.Time
}

type rule struct {
	matches func(Metrics) bool
	tier    model.SeverityTier
}

// rules are evaluated top to bottom, first match wins. COLLAPSE is listed
// after BLOODBATH because its momentum band is a strict subset; a pair inside
// both bands reads as BLOODBATH.
var rules = []rule{
	{func(m Metrics) bool { return m.Momentum < -0.8 && m.Confidence > 0.8 }, model.TierBloodbath},
	{func(m Metrics) bool { return m.Momentum > 0.6 && m.Confidence > 0.8 }, model.TierDomination},
	{func(m Metrics) bool { return m.Momentum > 0.4 && m.Confidence > 0.7 }, model.TierUprising},
	{func(m Metrics) bool { return m.Momentum < -0.9 && m.Confidence > 0.9 }, model.TierCollapse},
}

// Annotate selects the severity tier and renders headline and verdict text.
func Annotate(m Metrics) model.Narrative {
	tier := model.TierStable
	for _, r := range rules {
		if r.matches(m) {
			tier = r.tier
			break
		}
	}
	return model.Narrative{
		Tier:     tier,
		Headline: headline(tier),
		Verdict:  verdict(tier, m),
	}
}

func headline(tier model.SeverityTier) string {
	switch tier {
	case model.TierBloodbath:
		return "Severe visibility loss underway"
	case model.TierDomination:
		return "Commanding the conversation"
	case model.TierUprising:
		return "Momentum building"
	case model.TierCollapse:
		return "Terminal decline signals"
	default:
		return "Holding steady"
	}
}

func verdict(tier model.SeverityTier, m Metrics) string {
	switch tier {
	case model.TierBloodbath:
		return fmt.Sprintf("Momentum at %.2f with %.0f%% confidence: the domain is bleeding share of voice and the slide is accelerating.", m.Momentum, m.Confidence*100)
	case model.TierDomination:
		return fmt.Sprintf("Momentum at %.2f with %.0f%% confidence: the domain is consolidating a dominant position.", m.Momentum, m.Confidence*100)
	case model.TierUprising:
		return fmt.Sprintf("Momentum at %.2f with %.0f%% confidence: a sustained challenger push is in progress.", m.Momentum, m.Confidence*100)
	case model.TierCollapse:
		return fmt.Sprintf("Momentum at %.2f with %.0f%% confidence: signals point to structural, not cyclical, decline.", m.Momentum, m.Confidence*100)
	default:
		return fmt.Sprintf("Momentum at %.2f with %.0f%% confidence: no decisive movement either way.", m.Momentum, m.Confidence*100)
	}
}
