// Package marketing holds the rule-based collaborators of the marketing stage.
// Each type implements one domain port and can be swapped independently.
package marketing

import (
	"context"
	"fmt"
	"sort"

	"github.com/abdidvp/storediag/internal/domain"
)

// Insight categories.
const (
	CategoryStrength = "strength"
	CategoryWeakness = "weakness"
	CategoryCustomer = "customer"
)

var indexLabels = map[string]string{
	domain.IndexCVI: "commercial viability",
	domain.IndexASI: "accessibility",
	domain.IndexSCI: "competitiveness",
	domain.IndexGMI: "growth and market",
}

// RuleInsights reads strengths and weaknesses off the graded indices.
type RuleInsights struct {
	StrengthMin float64 // scores at or above are strengths
	WeaknessMax float64 // scores below are weaknesses
}

func NewRuleInsights() *RuleInsights {
	return &RuleInsights{StrengthMin: 80, WeaknessMax: 60}
}

func (r *RuleInsights) ExtractInsights(ctx context.Context, _ *domain.Report, scores domain.ScoredIndices, customer domain.CustomerContext) ([]domain.Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := []domain.Insight{}
	for _, name := range domain.IndexNames {
		s, ok := scores[name]
		if !ok {
			continue
		}
		switch {
		case s.Score >= r.StrengthMin:
			out = append(out, domain.Insight{
				Category: CategoryStrength,
				Metric:   name,
				Message:  fmt.Sprintf("%s is strong (%.1f, grade %s)", indexLabels[name], s.Score, s.Grade),
				Score:    s.Score,
			})
		case s.Score < r.WeaknessMax:
			out = append(out, domain.Insight{
				Category: CategoryWeakness,
				Metric:   name,
				Message:  fmt.Sprintf("%s is weak (%.1f, grade %s)", indexLabels[name], s.Score, s.Grade),
				Score:    s.Score,
			})
		}
	}

	if top, ok := largestSegment(customer.Segments); ok {
		out = append(out, domain.Insight{
			Category: CategoryCustomer,
			Message:  fmt.Sprintf("%s make up %.0f%% of customers", top.Name, top.Share*100),
			Score:    top.Share * 100,
		})
	}
	return out, nil
}

func largestSegment(segs []domain.CustomerSegment) (domain.CustomerSegment, bool) {
	if len(segs) == 0 {
		return domain.CustomerSegment{}, false
	}
	sorted := append([]domain.CustomerSegment(nil), segs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Share > sorted[j].Share })
	return sorted[0], true
}
