package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	r := NewPrometheusRecorder()

	r.EntryPosted("MANUAL")
	r.EntryPosted("MANUAL")
	r.EntryPosted("DEPRECIATION")
	r.EntryRejected("unbalanced")
	r.EntryReversed()
	r.CommitRetried("post")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.entriesPosted.WithLabelValues("MANUAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entriesPosted.WithLabelValues("DEPRECIATION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entriesRejected.WithLabelValues("unbalanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entriesReversed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commitRetries.WithLabelValues("post")))
}

func TestPrometheusRecorder_CommitHistogram(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveCommit("post", 15*time.Millisecond)
	r.ObserveCommit("reverse", 20*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(r.commitDuration, MetricCommitDurationSeconds))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	r := NewPrometheusRecorder()
	r.EntryPosted("MANUAL")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, MetricEntriesPostedTotal+`{source_type="MANUAL"} 1`), body)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.EntryPosted("MANUAL")
		r.EntryRejected("unbalanced")
		r.EntryReversed()
		r.CommitRetried("post")
		r.ObserveCommit("post", time.Second)
	})
}
