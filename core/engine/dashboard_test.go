package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandsignal/foresight/core/cache"
	"github.com/brandsignal/foresight/core/history"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/core/module"
)

func trajectoryStub(slope, confidence float64) *countingModule {
	return &countingModule{
		id: model.ComponentBrandTrajectory,
		result: func(in module.Input) model.ModuleResult {
			return &model.BrandTrajectory{
				ResultMeta: model.ResultMeta{ModuleID: model.ComponentBrandTrajectory, GeneratedAt: in.Now},
				Domain:     in.Domain,
				Direction:  "upward",
				Slope:      slope,
				Confidence: confidence,
			}
		},
	}
}

func TestDashboardIsolatesFailingComponent(t *testing.T) {
	market := marketModule(0.3, 0.7)
	broken := &countingModule{id: model.ComponentThreatWarnings, err: errors.New("boom")}
	eng := newTestEngine(t, cache.New(), &history.Mock{}, registryWith(t, market, broken))

	cfg := model.AnalysisConfig{IncludeMarketPosition: true, IncludeThreatWarnings: true}
	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err, "one failing component must not fail the dashboard")
	require.NotNil(t, dash)
	require.Len(t, dash.Components, 2)

	ok := dash.Components[model.ComponentMarketPosition]
	assert.False(t, ok.Failed())
	require.NotNil(t, ok.Result)
	assert.Equal(t, model.ComponentMarketPosition, ok.Result.Component())

	failed := dash.Components[model.ComponentThreatWarnings]
	require.True(t, failed.Failed())
	assert.Equal(t, model.ErrorKindComputation, failed.Error.Kind)
	assert.Nil(t, failed.Result)
}

func TestDashboardUnknownComponentGetsConfigurationMarker(t *testing.T) {
	market := marketModule(0.3, 0.7)
	eng := newTestEngine(t, cache.New(), &history.Mock{}, registryWith(t, market))

	cfg := model.AnalysisConfig{IncludeMarketPosition: true, IncludeDisruptions: true}
	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err)

	missing := dash.Components[model.ComponentDisruptions]
	require.True(t, missing.Failed())
	assert.Equal(t, model.ErrorKindConfiguration, missing.Error.Kind)
}

func TestDashboardHistoryFailureMarksEveryComponent(t *testing.T) {
	market := marketModule(0.3, 0.7)
	traj := trajectoryStub(1.5, 0.8)
	hist := &history.Mock{Err: errors.New("backend down")}
	eng := newTestEngine(t, cache.New(), hist, registryWith(t, market, traj))

	cfg := model.AnalysisConfig{IncludeMarketPosition: true, IncludeBrandTrajectory: true}
	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err, "a dead history backend degrades the dashboard, it does not abort it")
	require.Len(t, dash.Components, 2)
	for name, comp := range dash.Components {
		require.True(t, comp.Failed(), "component %s should carry a marker", name)
		assert.Equal(t, model.ErrorKindDataUnavailable, comp.Error.Kind)
	}
	assert.Equal(t, 0, market.calls())
	assert.Equal(t, 0, traj.calls())
}

func TestDashboardDefaultsToAllComponents(t *testing.T) {
	eng := newTestEngine(t, cache.New(), &history.Mock{}, module.DefaultRegistry())

	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", model.AnalysisConfig{})
	require.NoError(t, err)
	require.Len(t, dash.Components, len(model.Components()))
	for _, name := range model.Components() {
		comp, ok := dash.Components[name]
		require.True(t, ok, "component %s missing from dashboard", name)
		assert.False(t, comp.Failed(), "component %s failed: %v", name, comp.Error)
	}
}

func TestDashboardIsMemoized(t *testing.T) {
	market := marketModule(0.3, 0.7)
	hist := &history.Mock{}
	eng := newTestEngine(t, cache.New(), hist, registryWith(t, market))

	cfg := model.AnalysisConfig{IncludeMarketPosition: true}
	first, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err)
	second, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, market.calls())
	assert.Equal(t, 1, hist.Calls())
}

func TestDashboardNarrativeFollowsMarketPosition(t *testing.T) {
	market := marketModule(0.7, 0.9)
	eng := newTestEngine(t, cache.New(), &history.Mock{}, registryWith(t, market))

	cfg := model.AnalysisConfig{IncludeMarketPosition: true}
	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err)
	assert.Equal(t, model.TierDomination, dash.Narrative.Tier)
	assert.NotEmpty(t, dash.Narrative.Headline)
	assert.NotEmpty(t, dash.Narrative.Verdict)
}

func TestDashboardNarrativeFallsBackToTrajectory(t *testing.T) {
	traj := trajectoryStub(4, 0.85) // momentum 0.8 on the slope scale
	eng := newTestEngine(t, cache.New(), &history.Mock{}, registryWith(t, traj))

	cfg := model.AnalysisConfig{IncludeBrandTrajectory: true}
	dash, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", cfg)
	require.NoError(t, err)
	assert.Equal(t, model.TierDomination, dash.Narrative.Tier)
}

func TestDashboardRejectsInvalidConfig(t *testing.T) {
	eng := newTestEngine(t, cache.New(), &history.Mock{}, module.DefaultRegistry())

	_, err := eng.GeneratePredictionDashboard(context.Background(), "acme.com", model.AnalysisConfig{RiskThreshold: 1.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}
