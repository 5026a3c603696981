package module

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/brandsignal/foresight/core/model"
)

// TemporalModule analyzes how the signal evolves over the selected window:
// trend, weekday seasonality, abrupt change points and benchmark memory
// decay.
type TemporalModule struct{}

func (TemporalModule) ID() string { return model.ComponentTemporalAnalysis }

func (m TemporalModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)

	window := in.Config.Timeframe
	if window == "" {
		window = "30d"
	}
	out := &model.TemporalAnalysis{
		ResultMeta: meta(m.ID(), in.Now),
		Domain:     in.Domain,
		Window:     window,
		Trend:      "flat",
	}
	if in.Adjustment != nil {
		out.MemoryDecay = in.Adjustment.MemoryDecayRate(in.Now)
	}
	if len(obs) < 2 {
		return out, nil
	}

	_, ys := series(obs)
	out.Trend = trendOf(momentumOf(ys))
	out.Seasonality = weekdaySeasonality(obs, ys)
	out.ChangePoints = changePoints(obs, ys)
	return out, nil
}

// weekdaySeasonality measures how much weekday means diverge relative to the
// overall spread. 0 means no weekday pattern, 1 a strong one.
func weekdaySeasonality(obs []model.Observation, ys []float64) float64 {
	overall := stat.StdDev(ys, nil)
	if overall == 0 {
		return 0
	}
	sums := make(map[time.Weekday][]float64)
	for i, o := range obs {
		wd := o.Timestamp.Weekday()
		sums[wd] = append(sums[wd], ys[i])
	}
	if len(sums) < 2 {
		return 0
	}
	means := make([]float64, 0, len(sums))
	for _, vals := range sums {
		means = append(means, stat.Mean(vals, nil))
	}
	return clamp(stat.StdDev(means, nil)/overall, 0, 1)
}

// changePoints flags timestamps where the signal jumps more than two
// standard deviations between consecutive observations, capped at three.
func changePoints(obs []model.Observation, ys []float64) []time.Time {
	sd := stat.StdDev(ys, nil)
	if sd == 0 {
		return nil
	}
	var points []time.Time
	for i := 1; i < len(ys) && len(points) < 3; i++ {
		if absf(ys[i]-ys[i-1]) > 2*sd {
			points = append(points, obs[i].Timestamp)
		}
	}
	return points
}
