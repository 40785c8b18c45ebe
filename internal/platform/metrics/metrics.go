// Package metrics records ledger activity counters and commit latency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricEntriesPostedTotal    = "ledger_entries_posted_total"
	MetricEntriesRejectedTotal  = "ledger_entries_rejected_total"
	MetricEntriesReversedTotal  = "ledger_entries_reversed_total"
	MetricCommitRetriesTotal    = "ledger_commit_retries_total"
	MetricCommitDurationSeconds = "ledger_commit_duration_seconds"
)

// Recorder is the narrow surface the engines report through.
type Recorder interface {
	EntryPosted(sourceType string)
	EntryRejected(reason string)
	EntryReversed()
	CommitRetried(op string)
	ObserveCommit(op string, d time.Duration)
}

// NoopRecorder discards everything. It is the default when metrics are not wired.
type NoopRecorder struct{}

func (NoopRecorder) EntryPosted(string)                  {}
func (NoopRecorder) EntryRejected(string)                {}
func (NoopRecorder) EntryReversed()                      {}
func (NoopRecorder) CommitRetried(string)                {}
func (NoopRecorder) ObserveCommit(string, time.Duration) {}

// PrometheusRecorder exports ledger metrics from its own registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	entriesPosted   *prometheus.CounterVec
	entriesRejected *prometheus.CounterVec
	entriesReversed prometheus.Counter
	commitRetries   *prometheus.CounterVec
	commitDuration  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder backed by a fresh registry that also
// carries the Go runtime and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: registry,
		entriesPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEntriesPostedTotal,
			Help: "Journal entries committed, by source type.",
		}, []string{"source_type"}),
		entriesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEntriesRejectedTotal,
			Help: "Post or reverse attempts rejected, by reason.",
		}, []string{"reason"}),
		entriesReversed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEntriesReversedTotal,
			Help: "Entries reversed.",
		}),
		commitRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricCommitRetriesTotal,
			Help: "Atomic commit attempts retried after a transient storage failure.",
		}, []string{"op"}),
		commitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricCommitDurationSeconds,
			Help:    "Latency of the atomic commit step including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	registry.MustRegister(
		r.entriesPosted,
		r.entriesRejected,
		r.entriesReversed,
		r.commitRetries,
		r.commitDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *PrometheusRecorder) EntryPosted(sourceType string) {
	r.entriesPosted.WithLabelValues(sourceType).Inc()
}

func (r *PrometheusRecorder) EntryRejected(reason string) {
	r.entriesRejected.WithLabelValues(reason).Inc()
}

func (r *PrometheusRecorder) EntryReversed() {
	r.entriesReversed.Inc()
}

func (r *PrometheusRecorder) CommitRetried(op string) {
	r.commitRetries.WithLabelValues(op).Inc()
}

func (r *PrometheusRecorder) ObserveCommit(op string, d time.Duration) {
	r.commitDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
