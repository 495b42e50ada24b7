package domain

import "context"

// ReportLoader fetches the raw report for a store.
type ReportLoader interface {
	LoadReport(ctx context.Context, storeCode string) (*Report, error)
}

// CustomerContextLoader fetches customer data for a store.
type CustomerContextLoader interface {
	LoadCustomerContext(ctx context.Context, storeCode string) (CustomerContext, error)
}

// ResultStore persists one diagnostic result per store code.
// Save fully replaces any previous result; Load returns (nil, nil) when none exists.
type ResultStore interface {
	Save(ctx context.Context, storeCode string, result *DiagnosticResult) error
	Load(ctx context.Context, storeCode string) (*DiagnosticResult, error)
}

// KeyLocker serializes work on one key. The returned func releases the lock.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// RunHistory is an append-only ledger of runs per store.
type RunHistory interface {
	Append(storeCode string, entry RunEntry) error
	Load(storeCode string) ([]RunEntry, error)
}

// Notifier announces a diagnostic result to people.
type Notifier interface {
	Notify(ctx context.Context, result *DiagnosticResult) error
}

// RevisionSource reports the revision of the configuration in use.
type RevisionSource interface {
	Revision(path string) (string, error)
}

// InsightExtractor derives insights for the marketing stage.
type InsightExtractor interface {
	ExtractInsights(ctx context.Context, report *Report, scores ScoredIndices, customer CustomerContext) ([]Insight, error)
}

// TargetMatcher picks the customer segments to target.
type TargetMatcher interface {
	MatchTargets(ctx context.Context, customer CustomerContext, insights []Insight) ([]TargetSegment, error)
}

// StrategyGenerator turns diagnostics into marketing strategies.
type StrategyGenerator interface {
	GenerateStrategies(ctx context.Context, in MarketingInput, targets []TargetSegment) ([]Strategy, error)
}

// KPIEstimator estimates the effect of each strategy.
type KPIEstimator interface {
	EstimateKPIs(ctx context.Context, strategies []Strategy, indices Indices) ([]KPIEstimate, error)
}

// ResultValidator checks a result against the published artifact schema.
type ResultValidator interface {
	ValidateResult(result *DiagnosticResult) error
}
