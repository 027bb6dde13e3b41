package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecommendationServed(OutcomeFallback)
	m.RecommendationServed(OutcomeFallback)
	m.RecommendationServed(OutcomeSuccess)
	m.SyncFinished(OutcomeFetchFailed)
	m.NodesSkipped(3)
	m.NodesSkipped(0)
	m.SkillsUpserted(4)
	m.MLRequestObserved(150 * time.Millisecond)
	m.BreakerStateChanged("ml-service", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recommendations.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncs.WithLabelValues(OutcomeFetchFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.skippedNodes))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.skillsUpserted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("ml-service")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecommendationServed(OutcomeEmpty)
		m.SyncFinished(OutcomeSuccess)
		m.NodesSkipped(1)
		m.HTTPRequest("/", "200")
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.HTTPRequest("/api/v1/health", "200")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "github_skills_http_requests_total")
}
