package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/abdidvp/storediag/internal/domain"
)

type memStore struct {
	mu      sync.Mutex
	results map[string]*domain.DiagnosticResult
	saves   int
	err     error
}

func newMemStore() *memStore {
	return &memStore{results: map[string]*domain.DiagnosticResult{}}
}

func (m *memStore) Save(_ context.Context, code string, r *domain.DiagnosticResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.results[code] = r
	return nil
}

func (m *memStore) Load(_ context.Context, code string) (*domain.DiagnosticResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[code], nil
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
}

func (l *countingLocker) Lock(_ context.Context, _ string) (func(), error) {
	l.mu.Lock()
	l.locks++
	l.mu.Unlock()
	return func() {}, nil
}

type mapReports map[string]*domain.Report

func (m mapReports) LoadReport(_ context.Context, code string) (*domain.Report, error) {
	r, ok := m[code]
	if !ok {
		return nil, errors.New("report not found")
	}
	return r, nil
}

type staticCustomers struct {
	cc  domain.CustomerContext
	err error
}

func (s staticCustomers) LoadCustomerContext(context.Context, string) (domain.CustomerContext, error) {
	return s.cc, s.err
}

type rejectingValidator struct{}

func (rejectingValidator) ValidateResult(*domain.DiagnosticResult) error {
	return errors.New("schema violation")
}

type memHistory struct {
	mu      sync.Mutex
	entries []domain.RunEntry
}

func (h *memHistory) Append(_ string, e domain.RunEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *memHistory) Load(code string) ([]domain.RunEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.RunEntry
	for _, e := range h.entries {
		if e.StoreCode == code {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	notified []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, r *domain.DiagnosticResult) error {
	n.notified = append(n.notified, r.StoreCode)
	return n.err
}

type panickingInsights struct{}

func (panickingInsights) ExtractInsights(context.Context, *domain.Report, domain.ScoredIndices, domain.CustomerContext) ([]domain.Insight, error) {
	panic("boom")
}

type fixedInsights struct{}

func (fixedInsights) ExtractInsights(_ context.Context, _ *domain.Report, scores domain.ScoredIndices, _ domain.CustomerContext) ([]domain.Insight, error) {
	out := []domain.Insight{}
	for name, s := range scores {
		out = append(out, domain.Insight{Category: "index", Metric: name, Score: s.Score})
	}
	return out, nil
}

type failingTargets struct{}

func (failingTargets) MatchTargets(context.Context, domain.CustomerContext, []domain.Insight) ([]domain.TargetSegment, error) {
	return nil, errors.New("matcher offline")
}

type echoStrategies struct {
	seen domain.MarketingInput
}

func (e *echoStrategies) GenerateStrategies(_ context.Context, in domain.MarketingInput, targets []domain.TargetSegment) ([]domain.Strategy, error) {
	e.seen = in
	out := []domain.Strategy{}
	for _, r := range in.Recommendations {
		out = append(out, domain.Strategy{Name: r.Action, Addresses: r.Rules})
	}
	return out, nil
}

type nilKPIs struct{}

func (nilKPIs) EstimateKPIs(context.Context, []domain.Strategy, domain.Indices) ([]domain.KPIEstimate, error) {
	return nil, nil
}

// weakReport yields cvi 30 (critical) and asi 50.
func weakReport(code string) *domain.Report {
	return &domain.Report{
		StoreCode:     code,
		Commercial:    domain.Section{"survival_rate": 30.0, "competitor_count": 0.0},
		Accessibility: domain.Section{"walk_score": 50.0},
		Mobility:      domain.Section{"floating_population": 80000.0},
	}
}

// strongReport yields every index at 80 or above.
func strongReport(code string) *domain.Report {
	return &domain.Report{
		StoreCode:     code,
		Commercial:    domain.Section{"survival_rate": 90.0, "competitor_count": 3.0},
		Accessibility: domain.Section{"walk_score": 85.0},
		Mobility:      domain.Section{"floating_population": 90000.0},
	}
}

// blockingStore never finishes a save before the context ends.
type blockingStore struct{}

func (blockingStore) Save(ctx context.Context, _ string, _ *domain.DiagnosticResult) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) Load(context.Context, string) (*domain.DiagnosticResult, error) {
	return nil, nil
}
