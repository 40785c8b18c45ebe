package services

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/ledger_core/internal/core/services"

// RetryPolicy bounds automatic retries of the atomic commit step.
type RetryPolicy struct {
	MaxRetries uint64        // additional attempts after the first
	BaseDelay  time.Duration // first backoff interval, grows exponentially
	MaxDelay   time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}
}

type options struct {
	metrics            metrics.Recorder
	summaryCache       portsrepo.SummaryCache
	tracer             trace.Tracer
	retry              RetryPolicy
	now                func() time.Time
	allowOutsidePeriod bool
}

// Option is a functional option shared by the ledger services
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		metrics: metrics.NoopRecorder{},
		tracer:  otel.Tracer(tracerName),
		retry:   DefaultRetryPolicy(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMetrics reports ledger activity to rec.
func WithMetrics(rec metrics.Recorder) Option {
	return func(o *options) {
		if rec != nil {
			o.metrics = rec
		}
	}
}

// WithSummaryCache serves the account summary from cache and invalidates it on every commit.
func WithSummaryCache(cache portsrepo.SummaryCache) Option {
	return func(o *options) {
		o.summaryCache = cache
	}
}

// WithTracerProvider creates spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRetryPolicy overrides the commit retry budget.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) {
		o.retry = p
	}
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithAllowPostingOutsidePeriods accepts entries whose date falls in no defined period.
// By default such entries are rejected with period_not_found.
func WithAllowPostingOutsidePeriods(allow bool) Option {
	return func(o *options) {
		o.allowOutsidePeriod = allow
	}
}
