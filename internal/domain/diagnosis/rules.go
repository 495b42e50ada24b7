package diagnosis

import "github.com/abdidvp/storediag/internal/domain"

// Engine evaluates a fixed rule table against index values.
type Engine struct {
	rules []domain.DiagnosticRule
}

// NewEngine validates the table and returns an engine over a private copy of it.
func NewEngine(rules []domain.DiagnosticRule) (*Engine, error) {
	if err := domain.ValidateRules(rules); err != nil {
		return nil, err
	}
	cp := make([]domain.DiagnosticRule, len(rules))
	copy(cp, rules)
	return &Engine{rules: cp}, nil
}

// Rules returns a copy of the rule table in declaration order.
func (e *Engine) Rules() []domain.DiagnosticRule {
	cp := make([]domain.DiagnosticRule, len(e.rules))
	copy(cp, e.rules)
	return cp
}

// Evaluate returns every rule whose condition holds, in table order.
// A metric missing from indices is evaluated as 0.
func (e *Engine) Evaluate(indices domain.Indices) []domain.TriggeredRule {
	triggered := []domain.TriggeredRule{}
	for _, r := range e.rules {
		v := indices[r.Metric]
		if Matches(r, v) {
			triggered = append(triggered, domain.TriggeredRule{Rule: r, Value: v})
		}
	}
	return triggered
}

// Matches applies the rule's condition to v. Unknown conditions never match.
func Matches(r domain.DiagnosticRule, v float64) bool {
	switch r.Condition {
	case domain.ConditionBelow:
		return v < r.Threshold
	case domain.ConditionAbove:
		return v > r.Threshold
	case domain.ConditionBetween:
		return r.Threshold <= v && v <= r.ThresholdMax
	default:
		return false
	}
}
