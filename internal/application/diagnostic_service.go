package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/diagnosis"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// RunState is the position of a diagnostic run in its fixed stage sequence.
type RunState int

const (
	StateIdle RunState = iota
	StateRulesEvaluated
	StateExplained
	StateRecommended
	StateComposed
	StatePersisted
)

var runStateNames = [...]string{"Idle", "RulesEvaluated", "Explained", "Recommended", "Composed", "Persisted"}

func (s RunState) String() string {
	if s < 0 || int(s) >= len(runStateNames) {
		return fmt.Sprintf("RunState(%d)", int(s))
	}
	return runStateNames[s]
}

// DiagnosticService runs rules, explanations, recommendations and composition
// for one store and persists the result:
// Idle → RulesEvaluated → Explained → Recommended → Composed → Persisted.
type DiagnosticService struct {
	diagnoser *diagnosis.Diagnoser
	store     domain.ResultStore
	locker    domain.KeyLocker

	validator domain.ResultValidator
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
	runs      metric.Int64Counter
}

func NewDiagnosticService(
	pipeline *Pipeline,
	store domain.ResultStore,
	locker domain.KeyLocker,
	opts ...Option,
) *DiagnosticService {
	o := newOptions(opts)
	runs, err := o.meter.Int64Counter("storediag.runs.total",
		metric.WithDescription("Diagnostic runs by overall health."))
	if err != nil {
		o.logger.Warn("creating run counter", "error", err)
	}
	return &DiagnosticService{
		diagnoser: pipeline.Diagnoser,
		store:     store,
		locker:    locker,
		validator: o.validator,
		timeout:   o.timeout,
		logger:    o.logger.With("component", "diagnostic"),
		tracer:    o.tracer,
		runs:      runs,
	}
}

// run carries the intermediate products of one invocation between stages.
type run struct {
	storeCode    string
	indices      domain.Indices
	triggered    []domain.TriggeredRule
	explanations []string
	recs         []domain.Recommendation
	result       *domain.DiagnosticResult
}

type stage struct {
	target RunState
	exec   func(ctx context.Context, r *run) error
}

// Run diagnoses one store from its indices. Any stage failure aborts the run with
// a *domain.StageError and nothing is persisted.
func (s *DiagnosticService) Run(ctx context.Context, storeCode string, indices domain.Indices) (*domain.DiagnosticResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "diagnostic.run", trace.WithAttributes(attribute.String("store_code", storeCode)))
	defer span.End()

	r := &run{storeCode: storeCode, indices: indices.Clone()}
	state := StateIdle

	for _, st := range s.stages() {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(span, storeCode, st.target, err)
		}
		if err := st.exec(ctx, r); err != nil {
			return nil, s.fail(span, storeCode, st.target, err)
		}
		state = st.target
		s.logger.Debug("stage complete", "store_code", storeCode, "state", state.String())
	}

	if s.runs != nil {
		s.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("health", string(r.result.OverallHealth))))
	}
	span.SetAttributes(attribute.String("overall_health", string(r.result.OverallHealth)))
	s.logger.Info("diagnostic persisted",
		"store_code", storeCode,
		"overall_health", r.result.OverallHealth,
		"issues", len(r.result.Issues),
		"recommendations", len(r.result.Recommendations))
	return r.result, nil
}

func (s *DiagnosticService) stages() []stage {
	return []stage{
		{StateRulesEvaluated, func(_ context.Context, r *run) error {
			r.triggered = s.diagnoser.Engine.Evaluate(r.indices)
			return nil
		}},
		{StateExplained, func(_ context.Context, r *run) error {
			r.explanations = s.diagnoser.Explainer.GenerateAll(r.triggered)
			return nil
		}},
		{StateRecommended, func(_ context.Context, r *run) error {
			recs := s.diagnoser.Recommender.Generate(r.triggered)
			r.recs = s.diagnoser.Recommender.Prioritize(recs, r.indices)
			return nil
		}},
		{StateComposed, func(_ context.Context, r *run) error {
			res, err := diagnosis.Compose(r.storeCode, r.triggered, r.explanations, r.recs)
			if err != nil {
				return fmt.Errorf("composing result: %w", err)
			}
			if s.validator != nil {
				if err := s.validator.ValidateResult(res); err != nil {
					return fmt.Errorf("validating result: %w", err)
				}
			}
			r.result = res
			return nil
		}},
		{StatePersisted, s.persist},
	}
}

func (s *DiagnosticService) persist(ctx context.Context, r *run) error {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, r.storeCode)
		if err != nil {
			return fmt.Errorf("locking %s: %w", r.storeCode, err)
		}
		defer unlock()
	}
	if err := s.store.Save(ctx, r.storeCode, r.result); err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

func (s *DiagnosticService) fail(span trace.Span, storeCode string, at RunState, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("diagnostic aborted", "store_code", storeCode, "stage", at.String(), "error", err)
	return &domain.StageError{StoreCode: storeCode, Stage: at.String(), Err: err}
}

// Result returns the last persisted result for storeCode, or nil.
func (s *DiagnosticService) Result(ctx context.Context, storeCode string) (*domain.DiagnosticResult, error) {
	res, err := s.store.Load(ctx, storeCode)
	if err != nil {
		return nil, fmt.Errorf("loading result for %s: %w", storeCode, err)
	}
	return res, nil
}
