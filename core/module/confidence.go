package module

import (
	"context"

	"github.com/brandsignal/foresight/core/model"
)

// ConfidenceModule quantifies how trustworthy the current signal base is.
// Its results are never cached; the engine always computes them fresh.
type ConfidenceModule struct{}

func (ConfidenceModule) ID() string { return model.ComponentConfidenceMetrics }

func (m ConfidenceModule) Compute(ctx context.Context, in Input) (model.ModuleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := windowed(in.History, in.Config, in.Now)
	out := &model.ConfidenceMetrics{
		ResultMeta: meta(m.ID(), in.Now),
		Domain:     in.Domain,
		SampleSize: len(obs),
	}
	if len(obs) == 0 {
		out.Overall = 0.1
		return out, nil
	}

	_, ys := series(obs)
	// More rows, better coverage; disagreement between model responses
	// shows up as signal spread.
	dataQuality := clamp(float64(len(obs))/50, 0, 1)
	agreement := clamp(1-volatilityOf(ys, nil), 0, 1)

	overall := clamp(0.5*dataQuality+0.5*agreement, 0, 1)
	if in.Adjustment != nil {
		overall *= in.Adjustment.ConfidenceModifier()
	}

	out.DataQuality = dataQuality
	out.ModelAgreement = agreement
	out.Overall = overall
	if in.Config.IncludeTrends {
		out.Trend = trendOf(momentumOf(ys))
	}
	return out, nil
}
