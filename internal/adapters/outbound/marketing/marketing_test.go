package marketing_test

import (
	"context"
	"testing"

	"github.com/abdidvp/storediag/internal/adapters/outbound/marketing"
	"github.com/abdidvp/storediag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ domain.InsightExtractor  = (*marketing.RuleInsights)(nil)
	_ domain.TargetMatcher     = (*marketing.RuleTargets)(nil)
	_ domain.StrategyGenerator = (*marketing.RuleStrategies)(nil)
	_ domain.KPIEstimator      = (*marketing.RuleKPIs)(nil)
)

func customers() domain.CustomerContext {
	return domain.CustomerContext{
		StoreCode: "S001",
		Segments: []domain.CustomerSegment{
			{Name: "students", Share: 0.10, AvgSpend: 6000},
			{Name: "office_workers", Share: 0.45, AvgSpend: 12000},
			{Name: "families", Share: 0.30, AvgSpend: 18000},
			{Name: "seniors", Share: 0.15, AvgSpend: 9000},
		},
	}
}

func TestRuleInsights(t *testing.T) {
	scores := domain.ScoredIndices{
		"cvi": {Name: "cvi", Value: 35, Score: 35, Grade: "F"},
		"asi": {Name: "asi", Value: 70, Score: 70, Grade: "C"},
		"sci": {Name: "sci", Value: 92, Score: 92, Grade: "A"},
	}

	got, err := marketing.NewRuleInsights().ExtractInsights(context.Background(), nil, scores, customers())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, marketing.CategoryWeakness, got[0].Category)
	assert.Equal(t, "cvi", got[0].Metric)
	assert.Equal(t, marketing.CategoryStrength, got[1].Category)
	assert.Equal(t, "sci", got[1].Metric)
	assert.Equal(t, marketing.CategoryCustomer, got[2].Category)
	assert.Contains(t, got[2].Message, "office_workers")
}

func TestRuleInsights_NothingToSay(t *testing.T) {
	got, err := marketing.NewRuleInsights().ExtractInsights(context.Background(), nil, domain.ScoredIndices{}, domain.CustomerContext{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRuleTargets(t *testing.T) {
	got, err := marketing.NewRuleTargets().MatchTargets(context.Background(), customers(), nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "office_workers", got[0].Name)
	assert.Equal(t, "families", got[1].Name)
	assert.Equal(t, "seniors", got[2].Name)
	assert.Contains(t, got[1].Reason, "above-average spend")
	assert.NotContains(t, got[2].Reason, "above-average spend")
}

func TestRuleTargets_NoSegments(t *testing.T) {
	got, err := marketing.NewRuleTargets().MatchTargets(context.Background(), domain.CustomerContext{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRuleStrategies(t *testing.T) {
	in := domain.MarketingInput{
		Recommendations: []domain.Recommendation{
			{Action: "RestructureCosts", Title: "Restructure Costs", Detail: "cut", Rules: []string{"critical_cvi"}, Priority: 1},
			{Action: "ImproveSignage", Title: "Improve Signage", Detail: "signs", Rules: []string{"low_asi"}, Priority: 2},
			{Action: "ReviewIndex", Title: "Review Index", Detail: "review", Rules: []string{"custom"}, Priority: 3},
		},
	}
	targets := []domain.TargetSegment{{Name: "office_workers"}}

	got, err := marketing.NewRuleStrategies().GenerateStrategies(context.Background(), in, targets)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, marketing.ChannelOperations, got[0].Channel)
	assert.Equal(t, marketing.ChannelOffline, got[1].Channel)
	assert.Equal(t, marketing.ChannelInStore, got[2].Channel)
	assert.Equal(t, []string{"office_workers"}, got[0].Targets)
	assert.Equal(t, []string{"low_asi"}, got[1].Addresses)
	assert.Equal(t, 2, got[1].Priority)
}

func TestRuleStrategies_HealthyStore(t *testing.T) {
	got, err := marketing.NewRuleStrategies().GenerateStrategies(context.Background(), domain.MarketingInput{}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, marketing.RetainStrategy, got[0].Name)
	assert.Empty(t, got[0].Addresses)
}

func TestRuleKPIs(t *testing.T) {
	strategies := []domain.Strategy{
		{Name: "Partner Delivery Apps", Channel: marketing.ChannelDelivery, Priority: 1},
		{Name: "Run Local Promotion", Channel: marketing.ChannelLocalAds, Priority: 2},
		{Name: "Launch Loyalty Program", Channel: marketing.ChannelCRM, Priority: 1},
	}
	indices := domain.Indices{"cvi": 40, "asi": 95, "sci": 50, "gmi": 60}

	got, err := marketing.NewRuleKPIs().EstimateKPIs(context.Background(), strategies, indices)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.KPIEstimate{Strategy: "Partner Delivery Apps", KPI: "asi", Baseline: 95, Target: 100, Uplift: 5}, got[0])
	assert.Equal(t, domain.KPIEstimate{Strategy: "Run Local Promotion", KPI: "cvi", Baseline: 40, Target: 44, Uplift: 4}, got[1])
	assert.Equal(t, "sci", got[2].KPI)
	assert.Equal(t, 54.0, got[2].Target)
}

func TestMarketing_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := marketing.NewRuleKPIs().EstimateKPIs(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = marketing.NewRuleTargets().MatchTargets(ctx, customers(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
