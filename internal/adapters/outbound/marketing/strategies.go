package marketing

import (
	"context"

	"github.com/abdidvp/storediag/internal/domain"
)

// Channels a strategy runs through.
const (
	ChannelInStore    = "in_store"
	ChannelLocalAds   = "local_ads"
	ChannelOperations = "operations"
	ChannelOffline    = "offline"
	ChannelDelivery   = "delivery"
	ChannelProduct    = "product"
	ChannelCRM        = "crm"
)

var actionChannels = map[string]string{
	"ReviewSalesMix":       ChannelInStore,
	"RunLocalPromotion":    ChannelLocalAds,
	"RestructureCosts":     ChannelOperations,
	"ImproveSignage":       ChannelOffline,
	"PartnerDeliveryApps":  ChannelDelivery,
	"DifferentiateOffer":   ChannelProduct,
	"LaunchLoyaltyProgram": ChannelCRM,
}

// channelIndex is the index a channel's KPI is tracked on.
var channelIndex = map[string]string{
	ChannelInStore:    domain.IndexCVI,
	ChannelLocalAds:   domain.IndexCVI,
	ChannelOperations: domain.IndexCVI,
	ChannelOffline:    domain.IndexASI,
	ChannelDelivery:   domain.IndexASI,
	ChannelProduct:    domain.IndexSCI,
	ChannelCRM:        domain.IndexSCI,
}

// RetainStrategy is proposed when nothing needs fixing.
const RetainStrategy = "Retain Loyal Customers"

// RuleStrategies turns each recommendation into one strategy aimed at the
// matched targets, keeping the recommendation's priority.
type RuleStrategies struct{}

func NewRuleStrategies() *RuleStrategies { return &RuleStrategies{} }

func (RuleStrategies) GenerateStrategies(ctx context.Context, in domain.MarketingInput, targets []domain.TargetSegment) ([]domain.Strategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}

	if len(in.Recommendations) == 0 {
		return []domain.Strategy{{
			Name:        RetainStrategy,
			Channel:     ChannelCRM,
			Description: "No issues found. Reward repeat visits to keep current performance.",
			Targets:     names,
			Addresses:   []string{},
			Priority:    1,
		}}, nil
	}

	out := make([]domain.Strategy, 0, len(in.Recommendations))
	for _, rec := range in.Recommendations {
		channel, ok := actionChannels[rec.Action]
		if !ok {
			channel = ChannelInStore
		}
		out = append(out, domain.Strategy{
			Name:        rec.Title,
			Channel:     channel,
			Description: rec.Detail,
			Targets:     append([]string(nil), names...),
			Addresses:   append([]string(nil), rec.Rules...),
			Priority:    rec.Priority,
		})
	}
	return out, nil
}
