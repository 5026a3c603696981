package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandsignal/foresight/core/model"
)

func TestTierSelection(t *testing.T) {
	cases := []struct {
		name       string
		momentum   float64
		confidence float64
		want       model.SeverityTier
	}{
		{"bloodbath", -0.85, 0.85, model.TierBloodbath},
		{"domination", 0.65, 0.85, model.TierDomination},
		{"uprising", 0.45, 0.75, model.TierUprising},
		{"stable", 0.1, 0.5, model.TierStable},
		{"low confidence decline", -0.95, 0.5, model.TierStable},
		{"strong rise low confidence", 0.9, 0.6, model.TierStable},
		// Inside both the BLOODBATH and COLLAPSE bands; first match wins.
		{"bloodbath shadows collapse", -0.95, 0.95, model.TierBloodbath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Annotate(Metrics{Momentum: tc.momentum, Confidence: tc.confidence})
			assert.Equal(t, tc.want, got.Tier)
		})
	}
}

func TestAnnotateIsDeterministic(t *testing.T) {
	m := Metrics{Momentum: -0.85, Confidence: 0.85}
	first := Annotate(m)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Annotate(m))
	}
	assert.NotEmpty(t, first.Headline)
	assert.NotEmpty(t, first.Verdict)
}
