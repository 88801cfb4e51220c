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

	"billdash/internal/middleware/ratelimit"
)

func TestObserveOperation(t *testing.T) {
	m := New()
	m.ObserveOperation("fetchCardData", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveOperation("fetchCardData", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveOperation("fetchCardData", OutcomeDatastore, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("fetchCardData", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("fetchCardData", OutcomeDatastore)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveOperation("fetchRevenue", OutcomeSuccess, time.Millisecond)
	m.ObserveRequest("/api/revenue", 200, time.Millisecond)
	assert.Nil(t, m.Registry())

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/cards", 200, 5*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `billdash_http_requests_total{code="200",route="/api/cards"} 1`)
}

type stubLimiter struct{ stats ratelimit.Metrics }

func (s *stubLimiter) GetMetrics() ratelimit.Metrics { return s.stats }

func TestRegisterRateLimiter(t *testing.T) {
	m := New()
	src := &stubLimiter{stats: ratelimit.Metrics{TotalHits: 3, ClientCount: 2}}
	require.NoError(t, m.RegisterRateLimiter(src))

	expected := `
# HELP billdash_http_rate_limit_clients Clients currently tracked by the rate limiter.
# TYPE billdash_http_rate_limit_clients gauge
billdash_http_rate_limit_clients 2
# HELP billdash_http_rate_limited_total Requests rejected by the rate limiter.
# TYPE billdash_http_rate_limited_total counter
billdash_http_rate_limited_total 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"billdash_http_rate_limited_total", "billdash_http_rate_limit_clients"))

	src.stats.TotalHits = 5
	assert.Contains(t, scrape(t, m), "billdash_http_rate_limited_total 5")

	assert.Error(t, m.RegisterRateLimiter(src), "second registration must collide")

	var nilMetrics *Metrics
	assert.NoError(t, nilMetrics.RegisterRateLimiter(src))
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}
