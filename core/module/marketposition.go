package module

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/brandsignal/foresight/core/model"
)

// MarketPositionModule scores the domain's competitive standing from the
// observed signal in the configured window.
type MarketPositionModule struct{}

func (MarketPositionModule) ID() string { return model.ComponentMarketPosition }

func (m MarketPositionModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)
	if len(obs) == 0 {
		return &model.MarketPosition{
			ResultMeta: meta(m.ID(), in.Now),
			Domain:     in.Domain,
			Score:      50,
			Percentile: 0.5,
			Trend:      "flat",
			Confidence: 0.1,
		}, nil
	}

	_, ys := series(obs)
	mean := stat.Mean(ys, nil)
	momentum := momentumOf(ys)
	// Map mean sentiment [-1,1] onto a 0..100 score.
	score := clamp(50*(1+mean), 0, 100)

	return &model.MarketPosition{
		ResultMeta: meta(m.ID(), in.Now),
		Domain:     in.Domain,
		Score:      score,
		Percentile: clamp(score/100, 0, 1),
		Momentum:   momentum,
		Trend:      trendOf(momentum),
		SampleSize: len(obs),
		Confidence: confidenceFrom(len(obs), in.Adjustment),
	}, nil
}
