package application

import (
	"log/slog"
	"time"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

const instrumentationName = "github.com/abdidvp/storediag/internal/application"

// Option configures the ambient collaborators of a service.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	timeout   time.Duration
	validator domain.ResultValidator
	history   domain.RunHistory
	notifier  domain.Notifier
	revision  string
	workers   int
	limiter   *rate.Limiter
	now       func() time.Time
	newID     func() string
}

func newOptions(opts []Option) options {
	o := options{
		logger:  slog.New(slog.DiscardHandler),
		tracer:  tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:   metricnoop.NewMeterProvider().Meter(instrumentationName),
		workers: 1,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for stage and node spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithMeter sets the meter run and node-error counters are created from.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		if m != nil {
			o.meter = m
		}
	}
}

// WithTimeout bounds a whole diagnostic run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithValidator checks every result before it is persisted.
func WithValidator(v domain.ResultValidator) Option {
	return func(o *options) { o.validator = v }
}

// WithHistory records every run in a ledger.
func WithHistory(h domain.RunHistory) Option {
	return func(o *options) { o.history = h }
}

// WithNotifier announces critical results.
func WithNotifier(n domain.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithConfigRevision tags ledger entries with the revision of the config in use.
func WithConfigRevision(rev string) Option {
	return func(o *options) { o.revision = rev }
}

// WithWorkers bounds how many stores a batch processes at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRateLimit throttles report loads in a batch.
func WithRateLimit(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the run ID generator, for tests.
func WithIDGenerator(f func() string) Option {
	return func(o *options) { o.newID = f }
}
