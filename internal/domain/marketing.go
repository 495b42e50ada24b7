package domain

// CustomerSegment is one slice of a store's customer base.
type CustomerSegment struct {
	Name     string  `json:"name"`
	Share    float64 `json:"share"`
	AvgSpend float64 `json:"avg_spend"`
	AgeBand  string  `json:"age_band,omitempty"`
}

// CustomerContext is what the upstream loader knows about a store's customers.
type CustomerContext struct {
	StoreCode  string            `json:"store_code"`
	Segments   []CustomerSegment `json:"segments"`
	Attributes map[string]any    `json:"attributes,omitempty"`
}

// Insight is an observation extracted from the scored indices and the customer context.
type Insight struct {
	Category string  `json:"category"`
	Metric   string  `json:"metric,omitempty"`
	Message  string  `json:"message"`
	Score    float64 `json:"score"`
}

// TargetSegment is a customer segment the marketing stage should aim at.
type TargetSegment struct {
	Name   string  `json:"name"`
	Share  float64 `json:"share"`
	Reason string  `json:"reason"`
}

// Strategy is a marketing action addressing diagnosed issues.
type Strategy struct {
	Name        string   `json:"name"`
	Channel     string   `json:"channel"`
	Description string   `json:"description"`
	Targets     []string `json:"targets"`
	Addresses   []string `json:"addresses"`
	Priority    int      `json:"priority"`
}

// KPIEstimate is the expected effect of one strategy.
type KPIEstimate struct {
	Strategy string  `json:"strategy"`
	KPI      string  `json:"kpi"`
	Baseline float64 `json:"baseline"`
	Target   float64 `json:"target"`
	Uplift   float64 `json:"uplift"`
}

// MarketingInput is what the strategy generator consumes.
type MarketingInput struct {
	Insights        []Insight        `json:"insights"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
}
