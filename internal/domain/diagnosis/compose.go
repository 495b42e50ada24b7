package diagnosis

import "github.com/abdidvp/storediag/internal/domain"

// Compose zips triggered rules with their explanations into issues and attaches
// the recommendations as given. Overall health is always derived from the issues.
func Compose(storeCode string, triggered []domain.TriggeredRule, explanations []string, recs []domain.Recommendation) (*domain.DiagnosticResult, error) {
	if len(triggered) != len(explanations) {
		return nil, domain.ErrLengthMismatch
	}

	issues := make([]domain.Issue, len(triggered))
	for i, tr := range triggered {
		issues[i] = domain.Issue{
			IssueType:   tr.Rule.Name,
			Severity:    tr.Rule.Severity,
			Description: explanations[i],
			Metric:      tr.Rule.Metric,
		}
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return &domain.DiagnosticResult{
		StoreCode:       storeCode,
		Issues:          issues,
		Recommendations: recs,
		OverallHealth:   HealthOf(issues),
	}, nil
}

// HealthOf classifies a set of issues: any critical is critical, more than two
// warnings is warning, one or two warnings need attention, anything else is healthy.
func HealthOf(issues []domain.Issue) domain.Health {
	warnings := 0
	for _, is := range issues {
		switch is.Severity {
		case domain.SeverityCritical:
			return domain.HealthCritical
		case domain.SeverityWarning:
			warnings++
		}
	}
	switch {
	case warnings > 2:
		return domain.HealthWarning
	case warnings > 0:
		return domain.HealthAttentionNeeded
	default:
		return domain.HealthHealthy
	}
}
