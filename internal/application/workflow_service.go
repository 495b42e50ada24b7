package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdidvp/storediag/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Marketing groups the collaborators of the marketing sub-pipeline.
type Marketing struct {
	Insights   domain.InsightExtractor
	Targets    domain.TargetMatcher
	Strategies domain.StrategyGenerator
	KPIs       domain.KPIEstimator
}

// WorkflowService runs the store sub-pipeline (report, metrics, diagnostic) and the
// marketing sub-pipeline over one PipelineState. A failing node records a
// domain.NodeError, resets its output to the default and the next node runs anyway.
type WorkflowService struct {
	pipeline  *Pipeline
	runner    *DiagnosticService
	reports   domain.ReportLoader
	customers domain.CustomerContextLoader
	marketing Marketing

	notifier   domain.Notifier
	history    domain.RunHistory
	revision   string
	logger     *slog.Logger
	tracer     trace.Tracer
	nodeErrors metric.Int64Counter
	now        func() time.Time
	newID      func() string
}

func NewWorkflowService(
	pipeline *Pipeline,
	runner *DiagnosticService,
	reports domain.ReportLoader,
	customers domain.CustomerContextLoader,
	marketing Marketing,
	opts ...Option,
) *WorkflowService {
	o := newOptions(opts)
	nodeErrors, err := o.meter.Int64Counter("storediag.node_errors.total",
		metric.WithDescription("Workflow node failures by node."))
	if err != nil {
		o.logger.Warn("creating node error counter", "error", err)
	}
	return &WorkflowService{
		pipeline:   pipeline,
		runner:     runner,
		reports:    reports,
		customers:  customers,
		marketing:  marketing,
		notifier:   o.notifier,
		history:    o.history,
		revision:   o.revision,
		logger:     o.logger.With("component", "workflow"),
		tracer:     o.tracer,
		nodeErrors: nodeErrors,
		now:        o.now,
		newID:      o.newID,
	}
}

type node struct {
	name  string
	run   func(ctx context.Context, st *domain.PipelineState) error
	reset func(st *domain.PipelineState)
}

// Run executes every node in order and returns the final state. It never fails;
// inspect state.Errors for partial failure.
func (w *WorkflowService) Run(ctx context.Context, storeCode string) *domain.PipelineState {
	st := domain.NewPipelineState(w.newID(), storeCode)
	st.StartedAt = w.now().UTC()

	ctx, span := w.tracer.Start(ctx, "workflow.run", trace.WithAttributes(
		attribute.String("store_code", storeCode),
		attribute.String("run_id", st.RunID)))
	defer span.End()

	for _, n := range w.nodes() {
		w.execute(ctx, n, st)
	}

	span.SetAttributes(attribute.Int("node_errors", len(st.Errors)))
	if st.Failed() {
		span.SetStatus(codes.Error, "node errors recorded")
	}
	return st
}

// Nodes lists the node names in execution order.
func Nodes() []string {
	return []string{
		domain.NodeGenerateReport, domain.NodeCalculateMetrics, domain.NodeRunDiagnostic,
		domain.NodeLoadCustomerContext, domain.NodeExtractInsights, domain.NodeMatchTargets,
		domain.NodeGenerateStrategies, domain.NodeEstimateKPI, domain.NodeFinalize,
	}
}

func (w *WorkflowService) nodes() []node {
	return []node{
		{domain.NodeGenerateReport, w.generateReport, func(st *domain.PipelineState) {
			st.Report = &domain.Report{StoreCode: st.StoreCode}
		}},
		{domain.NodeCalculateMetrics, w.calculateMetrics, func(st *domain.PipelineState) {
			st.Indices = domain.ZeroIndices()
			st.Scores = domain.ScoredIndices{}
			st.Composite = 0
		}},
		{domain.NodeRunDiagnostic, w.runDiagnostic, func(st *domain.PipelineState) {
			st.Diagnostic = domain.EmptyDiagnostic(st.StoreCode)
		}},
		{domain.NodeLoadCustomerContext, w.loadCustomerContext, func(st *domain.PipelineState) {
			st.Customer = domain.CustomerContext{StoreCode: st.StoreCode, Segments: []domain.CustomerSegment{}}
		}},
		{domain.NodeExtractInsights, w.extractInsights, func(st *domain.PipelineState) {
			st.Insights = []domain.Insight{}
		}},
		{domain.NodeMatchTargets, w.matchTargets, func(st *domain.PipelineState) {
			st.TargetSegments = []domain.TargetSegment{}
		}},
		{domain.NodeGenerateStrategies, w.generateStrategies, func(st *domain.PipelineState) {
			st.Strategies = []domain.Strategy{}
		}},
		{domain.NodeEstimateKPI, w.estimateKPI, func(st *domain.PipelineState) {
			st.KPIEstimates = []domain.KPIEstimate{}
		}},
		{domain.NodeFinalize, w.finalize, func(*domain.PipelineState) {}},
	}
}

func (w *WorkflowService) execute(ctx context.Context, n node, st *domain.PipelineState) {
	ctx, span := w.tracer.Start(ctx, "workflow."+n.name)
	defer span.End()

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		return n.run(ctx, st)
	}()
	if err == nil {
		return
	}

	st.AddError(n.name, err)
	n.reset(st)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if w.nodeErrors != nil {
		w.nodeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("node", n.name)))
	}
	w.logger.Warn("node failed", "store_code", st.StoreCode, "node", n.name, "error", err)
}

func (w *WorkflowService) generateReport(ctx context.Context, st *domain.PipelineState) error {
	if w.reports == nil {
		return errors.New("no report loader configured")
	}
	r, err := w.reports.LoadReport(ctx, st.StoreCode)
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}
	if r == nil {
		return fmt.Errorf("no report for store %s", st.StoreCode)
	}
	if r.IsEmpty() {
		return fmt.Errorf("report for store %s has no data", st.StoreCode)
	}
	st.Report = r
	return nil
}

func (w *WorkflowService) calculateMetrics(_ context.Context, st *domain.PipelineState) error {
	m, err := w.pipeline.Measure(st.Report)
	if err != nil {
		return err
	}
	st.Indices = m.Indices
	st.Scores = m.Scores
	st.Composite = m.Composite
	return nil
}

// ErrNoReport is recorded by runDiagnostic when generateReport failed. The last
// persisted result for the store is left untouched.
var ErrNoReport = errors.New("skipped: no report")

func (w *WorkflowService) runDiagnostic(ctx context.Context, st *domain.PipelineState) error {
	if len(st.ErrorsFor(domain.NodeGenerateReport)) > 0 {
		return ErrNoReport
	}
	res, err := w.runner.Run(ctx, st.StoreCode, st.Indices)
	if err != nil {
		return err
	}
	st.Diagnostic = res
	return nil
}

func (w *WorkflowService) loadCustomerContext(ctx context.Context, st *domain.PipelineState) error {
	if w.customers == nil {
		return nil
	}
	cc, err := w.customers.LoadCustomerContext(ctx, st.StoreCode)
	if err != nil {
		return fmt.Errorf("loading customer context: %w", err)
	}
	if cc.StoreCode == "" {
		cc.StoreCode = st.StoreCode
	}
	if cc.Segments == nil {
		cc.Segments = []domain.CustomerSegment{}
	}
	st.Customer = cc
	return nil
}

func (w *WorkflowService) extractInsights(ctx context.Context, st *domain.PipelineState) error {
	if w.marketing.Insights == nil {
		return nil
	}
	ins, err := w.marketing.Insights.ExtractInsights(ctx, st.Report, st.Scores, st.Customer)
	if err != nil {
		return fmt.Errorf("extracting insights: %w", err)
	}
	st.Insights = orEmpty(ins)
	return nil
}

func (w *WorkflowService) matchTargets(ctx context.Context, st *domain.PipelineState) error {
	if w.marketing.Targets == nil {
		return nil
	}
	ts, err := w.marketing.Targets.MatchTargets(ctx, st.Customer, st.Insights)
	if err != nil {
		return fmt.Errorf("matching targets: %w", err)
	}
	st.TargetSegments = orEmpty(ts)
	return nil
}

func (w *WorkflowService) generateStrategies(ctx context.Context, st *domain.PipelineState) error {
	if w.marketing.Strategies == nil {
		return nil
	}
	in := domain.MarketingInput{
		Insights:        st.Insights,
		Issues:          st.Diagnostic.Issues,
		Recommendations: st.Diagnostic.Recommendations,
	}
	ss, err := w.marketing.Strategies.GenerateStrategies(ctx, in, st.TargetSegments)
	if err != nil {
		return fmt.Errorf("generating strategies: %w", err)
	}
	st.Strategies = orEmpty(ss)
	return nil
}

func (w *WorkflowService) estimateKPI(ctx context.Context, st *domain.PipelineState) error {
	if w.marketing.KPIs == nil {
		return nil
	}
	ks, err := w.marketing.KPIs.EstimateKPIs(ctx, st.Strategies, st.Indices)
	if err != nil {
		return fmt.Errorf("estimating kpis: %w", err)
	}
	st.KPIEstimates = orEmpty(ks)
	return nil
}

// finalize marks the state complete before anything that can fail, so a notifier
// or ledger failure still leaves a completed run.
func (w *WorkflowService) finalize(ctx context.Context, st *domain.PipelineState) error {
	st.Completed = true
	st.FinishedAt = w.now().UTC()
	st.Summary = fmt.Sprintf("%s: %s, %d issues, %d recommendations, %d strategies, %d node errors",
		st.StoreCode, st.Diagnostic.OverallHealth, len(st.Diagnostic.Issues),
		len(st.Diagnostic.Recommendations), len(st.Strategies), len(st.Errors))

	var errs []error
	if w.history != nil {
		entry := domain.RunEntry{
			RunID:          st.RunID,
			StoreCode:      st.StoreCode,
			Kind:           domain.RunKindWorkflow,
			OverallHealth:  st.Diagnostic.OverallHealth,
			Issues:         len(st.Diagnostic.Issues),
			Errors:         len(st.Errors),
			ConfigRevision: w.revision,
			Timestamp:      st.FinishedAt.Format(time.RFC3339),
		}
		if err := w.history.Append(st.StoreCode, entry); err != nil {
			errs = append(errs, fmt.Errorf("recording run: %w", err))
		}
	}
	if w.notifier != nil && st.Diagnostic.OverallHealth == domain.HealthCritical {
		if err := w.notifier.Notify(ctx, st.Diagnostic); err != nil {
			errs = append(errs, fmt.Errorf("notifying: %w", err))
		}
	}

	w.logger.Info("workflow finished", "store_code", st.StoreCode, "run_id", st.RunID,
		"overall_health", st.Diagnostic.OverallHealth, "node_errors", len(st.Errors))
	return errors.Join(errs...)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
