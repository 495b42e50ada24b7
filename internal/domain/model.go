package domain

import "math"

// Index names. Every report is reduced to exactly these four indices.
const (
	IndexCVI = "cvi" // commercial viability
	IndexASI = "asi" // accessibility
	IndexSCI = "sci" // competitiveness
	IndexGMI = "gmi" // growth / market
)

// IndexNames lists the indices in their canonical order.
var IndexNames = []string{IndexCVI, IndexASI, IndexSCI, IndexGMI}

// DefaultIndexWeight is the composite weight of each index when none is configured.
const DefaultIndexWeight = 0.25

// Indices maps an index name to its raw value.
type Indices map[string]float64

// Clone returns a copy of the map.
func (ix Indices) Clone() Indices {
	out := make(Indices, len(ix))
	for k, v := range ix {
		out[k] = v
	}
	return out
}

// IndexScore is one index after normalization and grading.
type IndexScore struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Score  float64 `json:"score"`
	Grade  string  `json:"grade"`
	Weight float64 `json:"weight"`
}

// ScoredIndices maps an index name to its score.
type ScoredIndices map[string]IndexScore

// GradeBand maps every score at or above Min to Grade.
type GradeBand struct {
	Min   float64 `yaml:"min"   json:"min"`
	Grade string  `yaml:"grade" json:"grade"`
}

// FloorGrade is returned for scores below every configured band.
const FloorGrade = "F"

// DefaultGradeBands returns the stock grading ladder.
func DefaultGradeBands() []GradeBand {
	return []GradeBand{
		{Min: 90, Grade: "A+"},
		{Min: 80, Grade: "B+"},
		{Min: 70, Grade: "C+"},
	}
}

// ComputeComposite returns the weighted average score across indices.
func ComputeComposite(scored ScoredIndices) float64 {
	var totalWeighted, totalWeight float64
	for _, s := range scored {
		totalWeighted += s.Score * s.Weight
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return math.Round(totalWeighted/totalWeight*10) / 10
}

// Severity classifies a diagnostic rule.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities: critical ranks highest, unknown values lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool { return s.Rank() > 0 }

// Condition is the comparison a rule applies to its metric.
type Condition string

const (
	ConditionBelow   Condition = "below"
	ConditionAbove   Condition = "above"
	ConditionBetween Condition = "between"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionBelow, ConditionAbove, ConditionBetween:
		return true
	}
	return false
}

// DiagnosticRule is a static threshold predicate over one index.
// ThresholdMax is only read for the between condition.
type DiagnosticRule struct {
	Name         string    `yaml:"name"          json:"rule_name"`
	Metric       string    `yaml:"metric"        json:"metric_name"`
	Condition    Condition `yaml:"condition"     json:"condition"`
	Threshold    float64   `yaml:"threshold"     json:"threshold"`
	ThresholdMax float64   `yaml:"threshold_max" json:"threshold_max,omitempty"`
	Severity     Severity  `yaml:"severity"      json:"severity"`
	Message      string    `yaml:"message"       json:"message"`
}

// TriggeredRule is a rule whose predicate held, with the value that tripped it.
type TriggeredRule struct {
	Rule  DiagnosticRule `json:"rule"`
	Value float64        `json:"value"`
}

// Issue is a triggered rule rendered for people.
type Issue struct {
	IssueType   string   `json:"issue_type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Metric      string   `json:"metric"`
}

// Recommendation is a remediation action derived from one or more triggered rules.
type Recommendation struct {
	Action       string    `json:"action"`
	Title        string    `json:"title"`
	Detail       string    `json:"detail"`
	Rules        []string  `json:"rules"`
	Metric       string    `json:"metric"`
	Severity     Severity  `json:"severity"`
	Condition    Condition `json:"condition"`
	Threshold    float64   `json:"threshold"`
	ThresholdMax float64   `json:"threshold_max,omitempty"`
	Deviation    float64   `json:"deviation"`
	Priority     int       `json:"priority"`
}

// Health is the aggregate classification of a store.
type Health string

const (
	HealthHealthy         Health = "healthy"
	HealthAttentionNeeded Health = "attention_needed"
	HealthWarning         Health = "warning"
	HealthCritical        Health = "critical"
)

// DiagnosticResult is the durable artifact of one diagnostic run.
type DiagnosticResult struct {
	StoreCode       string           `json:"store_code"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	OverallHealth   Health           `json:"overall_health"`
}

// HealthColor maps a health class to a terminal color name.
func HealthColor(h Health) string {
	switch h {
	case HealthHealthy:
		return "green"
	case HealthAttentionNeeded:
		return "yellow"
	case HealthWarning:
		return "orange"
	default:
		return "red"
	}
}
