package module

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// obsSeries builds daily observations ending the day before testNow, oldest
// first, one response per entry.
func obsSeries(responses ...string) []model.Observation {
	out := make([]model.Observation, len(responses))
	for i, resp := range responses {
		out[i] = model.Observation{
			Model:      "gpt-test",
			PromptType: "brand_overview",
			Response:   resp,
			Timestamp:  testNow.Add(-time.Duration(len(responses)-i) * 24 * time.Hour),
			Cohort:     "tech",
		}
	}
	return out
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestDefaultRegistryHasAllComponents(t *testing.T) {
	r := DefaultRegistry()
	assert.ElementsMatch(t, model.Components(), r.Components())
	for _, name := range model.Components() {
		m, ok := r.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, m.ID())
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(MarketPositionModule{}))
	assert.Error(t, r.Register(MarketPositionModule{}))
}

func TestSentimentOf(t *testing.T) {
	assert.Equal(t, 1.0, sentimentOf("A strong, trusted and innovative brand"))
	assert.Equal(t, -1.0, sentimentOf("Declining brand hit by scandal and lawsuit"))
	assert.Equal(t, 0.0, sentimentOf("The company sells software"))
	assert.InDelta(t, 0.0, sentimentOf("strong but declining"), 1e-9)
}

func TestNoHistoryYieldsLowConfidenceNotError(t *testing.T) {
	in := Input{Domain: "empty.com", Now: testNow}
	for _, m := range []Module{
		MarketPositionModule{}, ThreatWarningModule{}, TrajectoryModule{},
		DisruptionModule{}, AllocationModule{}, ConfidenceModule{}, TemporalModule{},
	} {
		res, err := m.Compute(context.Background(), in)
		require.NoError(t, err, m.ID())
		require.NotNil(t, res, m.ID())
		assert.Equal(t, m.ID(), res.Component())
	}
}

func TestMarketPositionPositiveSignal(t *testing.T) {
	in := Input{
		Domain:  "good.com",
		History: obsSeries(repeat("a strong trusted leading brand", 12)...),
		Now:     testNow,
	}
	res, err := MarketPositionModule{}.Compute(context.Background(), in)
	require.NoError(t, err)
	mp := res.(*model.MarketPosition)
	assert.Greater(t, mp.Score, 90.0)
	assert.Equal(t, 12, mp.SampleSize)
	assert.Greater(t, mp.Confidence, 0.3)
}

func TestMarketPositionConfidenceDampedByAdjustment(t *testing.T) {
	history := obsSeries(repeat("a strong brand", 20)...)
	adj := &benchmark.Adjustment{Severity: benchmark.SeverityCritical, ShockType: "brand_transition"}

	plain, err := MarketPositionModule{}.Compute(context.Background(), Input{Domain: "x.com", History: history, Now: testNow})
	require.NoError(t, err)
	damped, err := MarketPositionModule{}.Compute(context.Background(), Input{Domain: "x.com", History: history, Adjustment: adj, Now: testNow})
	require.NoError(t, err)

	pc := plain.(*model.MarketPosition).Confidence
	dc := damped.(*model.MarketPosition).Confidence
	assert.InDelta(t, pc*0.42, dc, 1e-9)
}

func TestThreatWarningsRiskThresholdFilters(t *testing.T) {
	// Declining series: positive head, negative tail.
	responses := append(repeat("a strong trusted brand", 6), repeat("declining brand facing scandal and lawsuit", 6)...)
	in := Input{Domain: "bad.com", History: obsSeries(responses...), Now: testNow}

	res, err := ThreatWarningModule{}.Compute(context.Background(), in)
	require.NoError(t, err)
	all := res.(*model.ThreatWarnings)
	require.NotEmpty(t, all.Warnings)

	in.Config = model.AnalysisConfig{RiskThreshold: 0.99}
	res, err = ThreatWarningModule{}.Compute(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, res.(*model.ThreatWarnings).Warnings)
}

func TestTrajectoryDirection(t *testing.T) {
	up := append(repeat("declining weak brand", 6), repeat("a strong leading trusted brand", 6)...)
	res, err := TrajectoryModule{}.Compute(context.Background(), Input{Domain: "up.com", History: obsSeries(up...), Now: testNow})
	require.NoError(t, err)
	tr := res.(*model.BrandTrajectory)
	assert.Equal(t, "upward", tr.Direction)
	assert.Len(t, tr.Projection, 4)
	for _, p := range tr.Projection {
		assert.True(t, p.Date.After(testNow))
	}
}

func TestDisruptionCategoriesScoped(t *testing.T) {
	mixed := append(repeat("a strong brand", 4), repeat("declining brand in controversy", 4)...)
	in := Input{
		Domain:  "d.com",
		History: obsSeries(mixed...),
		Config:  model.AnalysisConfig{Categories: []string{"narrative_attack"}},
		Now:     testNow,
	}
	res, err := DisruptionModule{}.Compute(context.Background(), in)
	require.NoError(t, err)
	for _, p := range res.(*model.DisruptionForecast).Predictions {
		assert.Equal(t, "narrative_attack", p.Category)
	}
}

func TestAllocationSharesSumToOne(t *testing.T) {
	in := Input{Domain: "a.com", History: obsSeries(repeat("declining brand", 9)...), Now: testNow}
	res, err := AllocationModule{}.Compute(context.Background(), in)
	require.NoError(t, err)
	ra := res.(*model.ResourceAllocation)
	var sum float64
	for _, it := range ra.Recommendations {
		sum += it.Share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestConfidenceTrendsToggle(t *testing.T) {
	history := obsSeries(repeat("a strong brand", 10)...)
	res, err := ConfidenceModule{}.Compute(context.Background(), Input{Domain: "c.com", History: history, Now: testNow})
	require.NoError(t, err)
	assert.Empty(t, res.(*model.ConfidenceMetrics).Trend)

	res, err = ConfidenceModule{}.Compute(context.Background(), Input{
		Domain: "c.com", History: history,
		Config: model.AnalysisConfig{IncludeTrends: true}, Now: testNow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.(*model.ConfidenceMetrics).Trend)
}

func TestTemporalMemoryDecayFromBenchmark(t *testing.T) {
	adj := &benchmark.Adjustment{
		Severity:       benchmark.SeverityCritical,
		ShockType:      "brand_transition",
		TransitionDate: testNow.Add(-365 * 24 * time.Hour),
	}
	res, err := TemporalModule{}.Compute(context.Background(), Input{Domain: "t.com", Adjustment: adj, Now: testNow})
	require.NoError(t, err)
	ta := res.(*model.TemporalAnalysis)
	assert.Greater(t, ta.MemoryDecay, 0.0)
	assert.Less(t, ta.MemoryDecay, 0.1)
}

func TestWindowedFiltersOldObservations(t *testing.T) {
	old := model.Observation{Response: "strong", Timestamp: testNow.Add(-40 * 24 * time.Hour)}
	recent := model.Observation{Response: "strong", Timestamp: testNow.Add(-24 * time.Hour)}
	got := windowed([]model.Observation{old, recent}, model.AnalysisConfig{Timeframe: "30d"}, testNow)
	require.Len(t, got, 1)
	assert.True(t, strings.Contains(got[0].Response, "strong"))
}

func TestCanceledContextSurfaces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MarketPositionModule{}.Compute(ctx, Input{Domain: "x.com", Now: testNow})
	assert.Error(t, err)
}
