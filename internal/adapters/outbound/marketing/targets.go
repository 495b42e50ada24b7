package marketing

import (
	"context"
	"fmt"
	"sort"

	"github.com/abdidvp/storediag/internal/domain"
)

// RuleTargets picks the largest customer segments.
type RuleTargets struct {
	MinShare float64
	Max      int
}

func NewRuleTargets() *RuleTargets {
	return &RuleTargets{MinShare: 0.15, Max: 3}
}

func (r *RuleTargets) MatchTargets(ctx context.Context, customer domain.CustomerContext, _ []domain.Insight) ([]domain.TargetSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segs := append([]domain.CustomerSegment(nil), customer.Segments...)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Share > segs[j].Share })

	mean := meanSpend(segs)
	out := []domain.TargetSegment{}
	for _, s := range segs {
		if len(out) == r.Max {
			break
		}
		if s.Share < r.MinShare {
			continue
		}
		reason := fmt.Sprintf("%.0f%% of customers", s.Share*100)
		if mean > 0 && s.AvgSpend > mean {
			reason += ", above-average spend"
		}
		out = append(out, domain.TargetSegment{Name: s.Name, Share: s.Share, Reason: reason})
	}
	return out, nil
}

func meanSpend(segs []domain.CustomerSegment) float64 {
	if len(segs) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range segs {
		total += s.AvgSpend
	}
	return total / float64(len(segs))
}
