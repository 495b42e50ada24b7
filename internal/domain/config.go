package domain

import (
	"math"
	"strings"
	"unicode"
)

// SupportedConfigVersion is the semver constraint a config file's version must satisfy.
const SupportedConfigVersion = "^1"

// DefaultConfigVersion is written by `storediag init`.
const DefaultConfigVersion = "1.0.0"

// ValuePlaceholder is substituted with the triggering value in explanation templates.
const ValuePlaceholder = "{value}"

// TiebreakPolicy selects how recommendations of equal severity are ordered.
type TiebreakPolicy string

const (
	TiebreakDeviation TiebreakPolicy = "deviation"
	TiebreakNone      TiebreakPolicy = "none"
)

// ScoreRange is the raw value range indices are normalized from.
type ScoreRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// ActionSpec is one canned remediation action for a rule.
// Action is a CamelCase code, e.g. ImproveFootTraffic.
type ActionSpec struct {
	Action string `yaml:"action" json:"action"`
	Detail string `yaml:"detail" json:"detail"`
}

// DiagnosticsConfig holds the diagnostics configuration loaded from .storediag.yaml.
type DiagnosticsConfig struct {
	Version      string                  `yaml:"version"      json:"version"`
	ScoreRange   ScoreRange              `yaml:"score_range"  json:"score_range"`
	GradeBands   []GradeBand             `yaml:"grade_bands"  json:"grade_bands"`
	Weights      map[string]float64      `yaml:"weights"      json:"weights"`
	Rules        []DiagnosticRule        `yaml:"rules"        json:"rules"`
	Explanations map[string]string       `yaml:"explanations" json:"explanations"`
	Actions      map[string][]ActionSpec `yaml:"actions"      json:"actions"`
	Tiebreak     TiebreakPolicy          `yaml:"tiebreak"     json:"tiebreak"`
}

// DefaultConfig returns the stock diagnostics configuration.
func DefaultConfig() DiagnosticsConfig {
	return DiagnosticsConfig{
		Version:      DefaultConfigVersion,
		ScoreRange:   ScoreRange{Min: 0, Max: 100},
		GradeBands:   DefaultGradeBands(),
		Weights:      DefaultWeights(),
		Rules:        DefaultRules(),
		Explanations: DefaultExplanations(),
		Actions:      DefaultActions(),
		Tiebreak:     TiebreakDeviation,
	}
}

// DefaultWeights weighs every index equally.
func DefaultWeights() map[string]float64 {
	w := make(map[string]float64, len(IndexNames))
	for _, name := range IndexNames {
		w[name] = DefaultIndexWeight
	}
	return w
}

// DefaultRules returns the stock rule table.
func DefaultRules() []DiagnosticRule {
	return []DiagnosticRule{
		{Name: "low_cvi", Metric: IndexCVI, Condition: ConditionBelow, Threshold: 60, Severity: SeverityWarning,
			Message: "Commercial viability is below target"},
		{Name: "critical_cvi", Metric: IndexCVI, Condition: ConditionBelow, Threshold: 40, Severity: SeverityCritical,
			Message: "Commercial viability is critically low"},
		{Name: "low_asi", Metric: IndexASI, Condition: ConditionBelow, Threshold: 60, Severity: SeverityWarning,
			Message: "Accessibility is below target"},
		{Name: "low_sci", Metric: IndexSCI, Condition: ConditionBelow, Threshold: 60, Severity: SeverityWarning,
			Message: "Competitiveness is below target"},
	}
}

// DefaultExplanations returns one template per default rule.
func DefaultExplanations() map[string]string {
	return map[string]string{
		"low_cvi":      "Commercial viability index is {value}, below the healthy level of 60.",
		"critical_cvi": "Commercial viability index is {value}, under the critical floor of 40.",
		"low_asi":      "Accessibility index is {value}; customers find the store hard to reach.",
		"low_sci":      "Competitiveness index is {value}; nearby competitors are outperforming the store.",
	}
}

// DefaultActions returns the remediation table for the default rules.
func DefaultActions() map[string][]ActionSpec {
	return map[string][]ActionSpec{
		"low_cvi": {
			{Action: "ReviewSalesMix", Detail: "Compare the product mix against the best-selling stores in the district."},
			{Action: "RunLocalPromotion", Detail: "Run a time-boxed promotion to lift weekday sales."},
		},
		"critical_cvi": {
			{Action: "RestructureCosts", Detail: "Audit rent, staffing and supply costs against revenue."},
			{Action: "ReviewSalesMix", Detail: "Compare the product mix against the best-selling stores in the district."},
		},
		"low_asi": {
			{Action: "ImproveSignage", Detail: "Add street-level signage on the main walking routes."},
			{Action: "PartnerDeliveryApps", Detail: "List the store on delivery platforms to reach customers who do not visit."},
		},
		"low_sci": {
			{Action: "DifferentiateOffer", Detail: "Introduce products or services competitors in the area do not carry."},
			{Action: "LaunchLoyaltyProgram", Detail: "Reward repeat visits to hold customers against competitors."},
		},
	}
}

// FallbackAction is emitted for a triggered rule that has no action table entry.
const FallbackAction = "ReviewIndex"

// Validate checks the config for invalid values and returns a *ConfigError.
func (c DiagnosticsConfig) Validate() error {
	if c.ScoreRange.Min >= c.ScoreRange.Max {
		return configErrorf("score_range", "min %.2f must be below max %.2f", c.ScoreRange.Min, c.ScoreRange.Max)
	}
	if err := ValidateGradeBands(c.GradeBands); err != nil {
		return err
	}
	if err := ValidateWeights(c.Weights); err != nil {
		return err
	}
	if err := ValidateRules(c.Rules); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Rules))
	for _, r := range c.Rules {
		names[r.Name] = true
	}

	for name, tmpl := range c.Explanations {
		if !names[name] {
			return configErrorf("explanations", "template for unknown rule %q", name)
		}
		if err := ValidateTemplate(tmpl); err != nil {
			return configErrorf("explanations."+name, "%s", err.(*ConfigError).Reason)
		}
	}

	for name, specs := range c.Actions {
		if !names[name] {
			return configErrorf("actions", "actions for unknown rule %q", name)
		}
		if len(specs) == 0 {
			return configErrorf("actions."+name, "must list at least one action")
		}
		for i, s := range specs {
			if !IsActionCode(s.Action) {
				return configErrorf("actions."+name, "action[%d] %q is not a CamelCase code", i, s.Action)
			}
		}
	}

	switch c.Tiebreak {
	case "", TiebreakDeviation, TiebreakNone:
	default:
		return configErrorf("tiebreak", "unknown policy %q (valid: deviation, none)", c.Tiebreak)
	}

	return nil
}

// ValidateGradeBands requires a non-empty ladder with strictly descending minimums.
func ValidateGradeBands(bands []GradeBand) error {
	if len(bands) == 0 {
		return configErrorf("grade_bands", "at least one band is required")
	}
	for i, b := range bands {
		if strings.TrimSpace(b.Grade) == "" {
			return configErrorf("grade_bands", "band %d has an empty grade", i)
		}
		if i > 0 && b.Min >= bands[i-1].Min {
			return configErrorf("grade_bands", "band %d min %.2f must be below %.2f", i, b.Min, bands[i-1].Min)
		}
	}
	return nil
}

// ValidateWeights requires a weight for every index and a total of 1.0 (+/- 0.01).
func ValidateWeights(weights map[string]float64) error {
	sum := 0.0
	for k, w := range weights {
		if !IsIndexName(k) {
			return configErrorf("weights", "unknown index %q", k)
		}
		if w < 0 {
			return configErrorf("weights", "weight for %s is negative", k)
		}
		sum += w
	}
	for _, name := range IndexNames {
		if _, ok := weights[name]; !ok {
			return configErrorf("weights", "missing weight for %s", name)
		}
	}
	if math.Abs(sum-1.0) > 0.01 {
		return configErrorf("weights", "weights sum to %.2f (must be 1.0)", sum)
	}
	return nil
}

// ValidateRules checks a rule table for names, metrics, conditions and severities.
func ValidateRules(rules []DiagnosticRule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Name) == "" {
			return configErrorf("rules", "rule %d has an empty name", i)
		}
		if seen[r.Name] {
			return configErrorf("rules", "duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true

		if !IsIndexName(r.Metric) {
			return configErrorf("rules."+r.Name, "unknown metric %q", r.Metric)
		}
		if !r.Condition.Valid() {
			return configErrorf("rules."+r.Name, "unknown condition %q (valid: below, above, between)", r.Condition)
		}
		if !r.Severity.Valid() {
			return configErrorf("rules."+r.Name, "unknown severity %q (valid: critical, warning, info)", r.Severity)
		}
		if r.Condition == ConditionBetween && r.ThresholdMax < r.Threshold {
			return configErrorf("rules."+r.Name, "threshold_max %.2f is below threshold %.2f", r.ThresholdMax, r.Threshold)
		}
	}
	return nil
}

// ValidateTemplate requires exactly one value placeholder.
func ValidateTemplate(tmpl string) error {
	if n := strings.Count(tmpl, ValuePlaceholder); n != 1 {
		return configErrorf("template", "must contain exactly one %s placeholder (found %d)", ValuePlaceholder, n)
	}
	return nil
}

// IsIndexName reports whether name is one of the four indices.
func IsIndexName(name string) bool {
	for _, n := range IndexNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsActionCode reports whether code looks like ImproveSignage: a capital letter
// followed by letters and digits.
func IsActionCode(code string) bool {
	if code == "" {
		return false
	}
	for i, r := range code {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// EffectiveTiebreak returns the configured policy, defaulting to deviation.
func (c DiagnosticsConfig) EffectiveTiebreak() TiebreakPolicy {
	if c.Tiebreak == "" {
		return TiebreakDeviation
	}
	return c.Tiebreak
}
