package module

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/model"
)

// Marker lexicons for deriving a numeric signal from observation text. The
// reference modules only need a coarse, deterministic signal; production
// deployments plug in their own scoring modules.
var positiveMarkers = []string{
	"leading", "innovative", "trusted", "dominant", "strong",
	"recommended", "best", "growing", "reliable", "popular",
}

var negativeMarkers = []string{
	"declining", "scandal", "lawsuit", "breach", "layoffs",
	"losing", "weak", "outdated", "controversy", "fraud",
}

// sentimentOf scores one response text into [-1,1]. Zero means neutral or no
// recognizable markers.
func sentimentOf(response string) float64 {
	text := strings.ToLower(response)
	var pos, neg int
	for _, m := range positiveMarkers {
		pos += strings.Count(text, m)
	}
	for _, m := range negativeMarkers {
		neg += strings.Count(text, m)
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// windowed filters history to the configured timeframe, ending at now.
// Config validation happens in the engine; an unparseable token here falls
// back to the default window.
func windowed(history []model.Observation, cfg model.AnalysisConfig, now time.Time) []model.Observation {
	window, err := cfg.Window()
	if err != nil {
		window = 30 * 24 * time.Hour
	}
	cutoff := now.Add(-window)
	out := make([]model.Observation, 0, len(history))
	for _, o := range history {
		if o.Timestamp.Before(cutoff) || o.Timestamp.After(now) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// series converts observations into regression inputs: x is days since the
// first observation, y is the sentiment signal.
func series(obs []model.Observation) (xs, ys []float64) {
	if len(obs) == 0 {
		return nil, nil
	}
	start := obs[0].Timestamp
	xs = make([]float64, len(obs))
	ys = make([]float64, len(obs))
	for i, o := range obs {
		xs[i] = o.Timestamp.Sub(start).Hours() / 24
		ys[i] = sentimentOf(o.Response)
	}
	return xs, ys
}

// momentumOf compares the recent third of the signal against the oldest
// third, clamped to [-1,1]. Short series read as zero momentum.
func momentumOf(ys []float64) float64 {
	n := len(ys)
	if n < 3 {
		return 0
	}
	third := n / 3
	head := stat.Mean(ys[:third], nil)
	tail := stat.Mean(ys[n-third:], nil)
	return clamp(tail-head, -1, 1)
}

// volatilityOf is the standard deviation of the signal, scaled by the
// benchmark volatility factor when the domain is a shock case.
func volatilityOf(ys []float64, adj *benchmark.Adjustment) float64 {
	if len(ys) < 2 {
		return 0
	}
	v := stat.StdDev(ys, nil)
	if adj != nil {
		v *= adj.VolatilityFactor()
	}
	return v
}

// confidenceFrom grows with sample size and is damped by the benchmark
// confidence modifier for shock-case domains.
func confidenceFrom(sampleSize int, adj *benchmark.Adjustment) float64 {
	c := 0.3 + 0.02*float64(sampleSize)
	if c > 0.95 {
		c = 0.95
	}
	if adj != nil {
		c *= adj.ConfidenceModifier()
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trendOf(momentum float64) string {
	switch {
	case momentum > 0.15:
		return "rising"
	case momentum < -0.15:
		return "declining"
	default:
		return "flat"
	}
}
