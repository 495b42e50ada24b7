package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdidvp/storediag/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// StoreOutcome is the result of diagnosing one store in a batch.
type StoreOutcome struct {
	StoreCode   string                   `json:"store_code"`
	RunID       string                   `json:"run_id"`
	Measurement Measurement              `json:"measurement"`
	Result      *domain.DiagnosticResult `json:"result,omitempty"`
	Err         error                    `json:"-"`
}

// BatchService diagnoses many stores concurrently. Stores share no state; writes
// for one store code are serialized by the runner's KeyLocker.
type BatchService struct {
	pipeline *Pipeline
	runner   *DiagnosticService
	reports  domain.ReportLoader

	history  domain.RunHistory
	notifier domain.Notifier
	revision string
	workers  int
	limiter  *rate.Limiter
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

func NewBatchService(
	pipeline *Pipeline,
	runner *DiagnosticService,
	reports domain.ReportLoader,
	opts ...Option,
) *BatchService {
	o := newOptions(opts)
	return &BatchService{
		pipeline: pipeline,
		runner:   runner,
		reports:  reports,
		history:  o.history,
		notifier: o.notifier,
		revision: o.revision,
		workers:  o.workers,
		limiter:  o.limiter,
		logger:   o.logger.With("component", "batch"),
		now:      o.now,
		newID:    o.newID,
	}
}

// Diagnose loads, measures, diagnoses and records one store.
func (b *BatchService) Diagnose(ctx context.Context, storeCode string) StoreOutcome {
	out := StoreOutcome{StoreCode: storeCode, RunID: b.newID()}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			out.Err = fmt.Errorf("waiting for rate limiter: %w", err)
			return out
		}
	}

	report, err := b.reports.LoadReport(ctx, storeCode)
	if err != nil {
		out.Err = fmt.Errorf("loading report for %s: %w", storeCode, err)
		return out
	}
	if report == nil {
		out.Err = fmt.Errorf("no report for store %s", storeCode)
		return out
	}
	if report.IsEmpty() {
		out.Err = fmt.Errorf("report for store %s has no data", storeCode)
		return out
	}

	m, err := b.pipeline.Measure(report)
	if err != nil {
		out.Err = err
		return out
	}
	out.Measurement = m

	res, err := b.runner.Run(ctx, storeCode, m.Indices)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res
	b.record(out)
	b.notify(ctx, out)
	return out
}

// Run diagnoses every store with at most the configured number of workers.
// Outcomes are returned in the order of codes; one store failing never stops the others.
func (b *BatchService) Run(ctx context.Context, codes []string) []StoreOutcome {
	outcomes := make([]StoreOutcome, len(codes))
	var g errgroup.Group
	g.SetLimit(b.workers)

	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			outcomes[i] = StoreOutcome{StoreCode: code, Err: err}
			continue
		}
		g.Go(func() error {
			outcomes[i] = b.Diagnose(ctx, code)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	b.logger.Info("batch finished", "stores", len(codes), "failed", failed, "workers", b.workers)
	return outcomes
}

func (b *BatchService) record(o StoreOutcome) {
	if b.history == nil {
		return
	}
	entry := domain.RunEntry{
		RunID:          o.RunID,
		StoreCode:      o.StoreCode,
		Kind:           domain.RunKindDiagnose,
		OverallHealth:  o.Result.OverallHealth,
		Issues:         len(o.Result.Issues),
		ConfigRevision: b.revision,
		Timestamp:      b.now().UTC().Format(time.RFC3339),
	}
	if err := b.history.Append(o.StoreCode, entry); err != nil {
		b.logger.Warn("recording run", "store_code", o.StoreCode, "error", err)
	}
}

func (b *BatchService) notify(ctx context.Context, o StoreOutcome) {
	if b.notifier == nil || o.Result.OverallHealth != domain.HealthCritical {
		return
	}
	if err := b.notifier.Notify(ctx, o.Result); err != nil {
		b.logger.Warn("notifying", "store_code", o.StoreCode, "error", err)
	}
}

// AnyCritical reports whether any outcome is a critical result.
func AnyCritical(outcomes []StoreOutcome) bool {
	for _, o := range outcomes {
		if o.Result != nil && o.Result.OverallHealth == domain.HealthCritical {
			return true
		}
	}
	return false
}
