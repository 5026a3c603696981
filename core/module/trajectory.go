package module

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/brandsignal/foresight/core/model"
)

// TrajectoryModule fits a linear trend to the signal and projects it forward
// four weeks.
type TrajectoryModule struct{}

func (TrajectoryModule) ID() string { return model.ComponentBrandTrajectory }

func (m TrajectoryModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)
	if len(obs) < 3 {
		return &model.BrandTrajectory{
			ResultMeta: meta(m.ID(), in.Now),
			Domain:     in.Domain,
			Direction:  "stable",
			Confidence: 0.1,
		}, nil
	}

	xs, ys := series(obs)
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	vol := volatilityOf(ys, in.Adjustment)

	// Slope in score units (0..100 scale) per day.
	slope := beta * 50
	direction := "stable"
	switch {
	case slope > 0.2:
		direction = "upward"
	case slope < -0.2:
		direction = "downward"
	}

	// Project weekly points from the end of the observed series.
	lastX := xs[len(xs)-1]
	projection := make([]model.TrajectoryPoint, 0, 4)
	for week := 1; week <= 4; week++ {
		x := lastX + float64(week*7)
		score := clamp(50*(1+alpha+beta*x), 0, 100)
		projection = append(projection, model.TrajectoryPoint{
			Date:  in.Now.Add(time.Duration(week*7) * 24 * time.Hour),
			Score: score,
		})
	}

	return &model.BrandTrajectory{
		ResultMeta: meta(m.ID(), in.Now),
		Domain:     in.Domain,
		Direction:  direction,
		Slope:      slope,
		Volatility: vol,
		Projection: projection,
		Confidence: confidenceFrom(len(obs), in.Adjustment),
	}, nil
}
