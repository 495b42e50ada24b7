package diagnosis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/fatih/camelcase"
)

// Recommender maps triggered rules to remediation actions and ranks them.
type Recommender struct {
	actions  map[string][]domain.ActionSpec
	tiebreak domain.TiebreakPolicy
}

// NewRecommender validates the action table and tie-break policy.
func NewRecommender(actions map[string][]domain.ActionSpec, tiebreak domain.TiebreakPolicy) (*Recommender, error) {
	switch tiebreak {
	case "":
		tiebreak = domain.TiebreakDeviation
	case domain.TiebreakDeviation, domain.TiebreakNone:
	default:
		return nil, &domain.ConfigError{Field: "tiebreak", Reason: fmt.Sprintf("unknown policy %q", tiebreak)}
	}

	cp := make(map[string][]domain.ActionSpec, len(actions))
	for name, specs := range actions {
		for i, s := range specs {
			if !domain.IsActionCode(s.Action) {
				return nil, &domain.ConfigError{
					Field:  "actions." + name,
					Reason: fmt.Sprintf("action[%d] %q is not a CamelCase code", i, s.Action),
				}
			}
		}
		cp[name] = append([]domain.ActionSpec(nil), specs...)
	}
	return &Recommender{actions: cp, tiebreak: tiebreak}, nil
}

// Generate emits one recommendation per distinct action in first-seen order.
// Rules sharing an action are merged and the most severe rule drives the result.
// A rule without table entries yields domain.FallbackAction.
func (r *Recommender) Generate(triggered []domain.TriggeredRule) []domain.Recommendation {
	recs := []domain.Recommendation{}
	index := make(map[string]int)

	for _, tr := range triggered {
		for _, spec := range r.specsFor(tr) {
			i, seen := index[spec.Action]
			if !seen {
				index[spec.Action] = len(recs)
				recs = append(recs, newRecommendation(spec, tr))
				continue
			}
			rec := &recs[i]
			rec.Rules = append(rec.Rules, tr.Rule.Name)
			if tr.Rule.Severity.Rank() > rec.Severity.Rank() {
				rec.Severity = tr.Rule.Severity
				rec.Metric = tr.Rule.Metric
				rec.Condition = tr.Rule.Condition
				rec.Threshold = tr.Rule.Threshold
				rec.ThresholdMax = tr.Rule.ThresholdMax
				rec.Deviation = Deviation(tr.Rule, tr.Value)
			}
		}
	}
	return recs
}

func (r *Recommender) specsFor(tr domain.TriggeredRule) []domain.ActionSpec {
	if specs := r.actions[tr.Rule.Name]; len(specs) > 0 {
		return specs
	}
	return []domain.ActionSpec{{
		Action: domain.FallbackAction,
		Detail: fmt.Sprintf("Review the inputs behind the %s index (%s measured %.1f).",
			strings.ToUpper(tr.Rule.Metric), tr.Rule.Name, tr.Value),
	}}
}

func newRecommendation(spec domain.ActionSpec, tr domain.TriggeredRule) domain.Recommendation {
	return domain.Recommendation{
		Action:       spec.Action,
		Title:        Title(spec.Action),
		Detail:       spec.Detail,
		Rules:        []string{tr.Rule.Name},
		Metric:       tr.Rule.Metric,
		Severity:     tr.Rule.Severity,
		Condition:    tr.Rule.Condition,
		Threshold:    tr.Rule.Threshold,
		ThresholdMax: tr.Rule.ThresholdMax,
		Deviation:    Deviation(tr.Rule, tr.Value),
	}
}

// Title turns an action code such as ImproveSignage into "Improve Signage".
func Title(action string) string {
	return strings.Join(camelcase.Split(action), " ")
}

// Deviation is how far v sits from the rule's threshold. For between rules it is
// the distance to the nearest bound.
func Deviation(rule domain.DiagnosticRule, v float64) float64 {
	if rule.Condition == domain.ConditionBetween {
		return math.Min(math.Abs(v-rule.Threshold), math.Abs(v-rule.ThresholdMax))
	}
	return math.Abs(v - rule.Threshold)
}

// Prioritize returns a new slice ordered by severity, then by deviation from the
// threshold (unless the tie-break policy is none). Ties keep their input order.
// Priorities are reassigned 1..n; recs is not modified.
func (r *Recommender) Prioritize(recs []domain.Recommendation, indices domain.Indices) []domain.Recommendation {
	out := make([]domain.Recommendation, len(recs))
	for i, rec := range recs {
		rec.Rules = append([]string(nil), rec.Rules...)
		if v, ok := indices[rec.Metric]; ok {
			rec.Deviation = Deviation(domain.DiagnosticRule{
				Condition:    rec.Condition,
				Threshold:    rec.Threshold,
				ThresholdMax: rec.ThresholdMax,
			}, v)
		}
		out[i] = rec
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		if r.tiebreak == domain.TiebreakDeviation {
			return out[i].Deviation > out[j].Deviation
		}
		return false
	})

	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}

