package diagnosis

import (
	"strconv"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
)

// FallbackTemplate explains a rule that has no template of its own.
const FallbackTemplate = "This index is outside the healthy range (measured {value})."

// Explainer renders triggered rules into sentences.
type Explainer struct {
	templates map[string]string
}

// NewExplainer validates that every template holds exactly one value placeholder.
func NewExplainer(templates map[string]string) (*Explainer, error) {
	cp := make(map[string]string, len(templates))
	for name, tmpl := range templates {
		if err := domain.ValidateTemplate(tmpl); err != nil {
			return nil, &domain.ConfigError{Field: "explanations." + name, Reason: err.(*domain.ConfigError).Reason}
		}
		cp[name] = tmpl
	}
	return &Explainer{templates: cp}, nil
}

// Generate renders the template for ruleName with value at one decimal place.
func (x *Explainer) Generate(ruleName string, value float64) string {
	tmpl, ok := x.templates[ruleName]
	if !ok {
		tmpl = FallbackTemplate
	}
	return strings.Replace(tmpl, domain.ValuePlaceholder, strconv.FormatFloat(value, 'f', 1, 64), 1)
}

// GenerateAll explains each triggered rule, preserving order.
func (x *Explainer) GenerateAll(triggered []domain.TriggeredRule) []string {
	out := make([]string, len(triggered))
	for i, tr := range triggered {
		out[i] = x.Generate(tr.Rule.Name, tr.Value)
	}
	return out
}
