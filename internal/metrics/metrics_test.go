package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP(http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)
		m.ObserveUpstream("search", time.Millisecond)
		m.IncUpstreamError("search", "timeout")
		m.IncSearchCacheHit()
		m.IncAuthorFanoutDegraded()
		m.IncHistoryWriteFailure()
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveUpstream("author", 10*time.Millisecond)
	m.ObserveUpstream("author", 20*time.Millisecond)
	m.IncUpstreamError("work", "not_found")
	m.IncAuthorFanoutDegraded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("author")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("work", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorFanoutDegraded))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/books/search", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "bookfinder_http_requests_total"))
}
