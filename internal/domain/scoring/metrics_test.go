package scoring_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAll_EmptyReport(t *testing.T) {
	ix := scoring.CalculateAll(&domain.Report{})
	assert.Len(t, ix, 4)
	for _, name := range domain.IndexNames {
		assert.Equal(t, scoring.NeutralScore, ix[name], name)
	}
}

func TestCalculateAll_NilReport(t *testing.T) {
	ix := scoring.CalculateAll(nil)
	assert.Len(t, ix, 4)
}

func TestCalculateCVI(t *testing.T) {
	r := &domain.Report{Commercial: domain.Section{
		"sales_growth_rate": 0.0,   // 50
		"survival_rate":     80.0,  // 80
		"closure_rate":      "15",  // 50 inverted -> 50
		"avg_monthly_sales": "n/a", // ignored
	}}
	assert.InDelta(t, 60, scoring.CalculateCVI(r), 0.001)
}

func TestCalculateCVI_ClampsSubScores(t *testing.T) {
	r := &domain.Report{Commercial: domain.Section{
		"sales_growth_rate": 80.0, // far above 20 -> 100
		"survival_rate":     -5.0, // below 0 -> 0
	}}
	assert.InDelta(t, 50, scoring.CalculateCVI(r), 0.001)
}

func TestCalculateASI_Inverted(t *testing.T) {
	near := &domain.Report{Accessibility: domain.Section{"transit_distance_m": 0.0}}
	far := &domain.Report{Accessibility: domain.Section{"transit_distance_m": 1500.0}}
	assert.InDelta(t, 100, scoring.CalculateASI(near), 0.001)
	assert.InDelta(t, 0, scoring.CalculateASI(far), 0.001)
}

func TestCalculateSCI_ReadsIndustryFallback(t *testing.T) {
	r := &domain.Report{
		Commercial: domain.Section{"competitor_count": 15.0},
		Industry:   domain.Section{"market_share": 25.0, "competitor_count": 0.0},
	}
	// competitor_count from commercial (50), market_share from industry (50)
	assert.InDelta(t, 50, scoring.CalculateSCI(r), 0.001)
}

func TestCalculateGMI(t *testing.T) {
	r := &domain.Report{
		Mobility: domain.Section{"floating_population": 100000.0, "resident_population": 25000.0},
		Industry: domain.Section{"industry_growth_rate": 0.0, "store_count_change": -20.0},
	}
	// 100, 50, 50, 0
	assert.InDelta(t, 50, scoring.CalculateGMI(r), 0.001)
}

func TestCalculateAll_Bounded(t *testing.T) {
	r := &domain.Report{
		Commercial:    domain.Section{"sales_growth_rate": 1e9, "closure_rate": -1e9},
		Accessibility: domain.Section{"walk_score": 1e6},
		Mobility:      domain.Section{"floating_population": -1e6},
	}
	for name, v := range scoring.CalculateAll(r) {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
}

func TestInputs(t *testing.T) {
	in := scoring.Inputs()
	assert.Len(t, in, 4)
	assert.Contains(t, in["asi"], "walk_score")
	assert.Len(t, in["sci"], 3)
}

func TestCalculateCVI_IgnoresNonFiniteInputs(t *testing.T) {
	var r domain.Report
	require.NoError(t, json.Unmarshal(
		[]byte(`{"commercial": {"survival_rate": "NaN", "sales_growth_rate": -20, "closure_rate": 30}}`), &r))

	cvi := scoring.CalculateCVI(&r)
	assert.False(t, math.IsNaN(cvi))
	// sales_growth_rate -20 -> 0, closure_rate 30 -> 0 inverted; survival_rate ignored
	assert.InDelta(t, 0, cvi, 0.001)

	ix := scoring.CalculateAll(&r)
	_, err := json.Marshal(ix)
	assert.NoError(t, err)
	for name, v := range ix {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
}

func TestCalculateAll_RawNaNSection(t *testing.T) {
	r := &domain.Report{Accessibility: domain.Section{"walk_score": math.NaN(), "transit_distance_m": math.Inf(1)}}
	assert.Equal(t, scoring.NeutralScore, scoring.CalculateASI(r))
}
