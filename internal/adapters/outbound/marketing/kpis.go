package marketing

import (
	"context"
	"math"

	"github.com/abdidvp/storediag/internal/domain"
)

// channelUplift is the index points a first-priority strategy is expected to add.
var channelUplift = map[string]float64{
	ChannelInStore:    6,
	ChannelLocalAds:   8,
	ChannelOperations: 5,
	ChannelOffline:    7,
	ChannelDelivery:   9,
	ChannelProduct:    6,
	ChannelCRM:        4,
}

// RuleKPIs estimates each strategy's effect on the index its channel moves.
// Uplift decays with priority: the nth strategy gets 1/n of the channel uplift.
type RuleKPIs struct{}

func NewRuleKPIs() *RuleKPIs { return &RuleKPIs{} }

func (RuleKPIs) EstimateKPIs(ctx context.Context, strategies []domain.Strategy, indices domain.Indices) ([]domain.KPIEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.KPIEstimate, 0, len(strategies))
	for _, s := range strategies {
		kpi, ok := channelIndex[s.Channel]
		if !ok {
			kpi = domain.IndexCVI
		}
		uplift := channelUplift[s.Channel]
		if s.Priority > 1 {
			uplift /= float64(s.Priority)
		}
		baseline := indices[kpi]
		target := math.Min(100, baseline+uplift)
		out = append(out, domain.KPIEstimate{
			Strategy: s.Name,
			KPI:      kpi,
			Baseline: baseline,
			Target:   round1(target),
			Uplift:   round1(target - baseline),
		})
	}
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
