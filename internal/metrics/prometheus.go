// Package metrics exposes Prometheus metrics for syncs and recommendations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "github_skills"

// Outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeFallback     = "fallback"
	OutcomeEmpty        = "empty"
	OutcomePrecondition = "precondition"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeError        = "error"
)

// Metrics holds every collector of the service on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recommendations   *prometheus.CounterVec
	mlRequestDuration prometheus.Histogram
	breakerState      *prometheus.GaugeVec
	syncs             *prometheus.CounterVec
	skippedNodes      prometheus.Counter
	skillsUpserted    prometheus.Counter
	httpRequests      *prometheus.CounterVec
}

// New creates a Metrics instance registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		recommendations: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "responses_total",
			Help:      "Recommendation responses by outcome (success, fallback, empty).",
		}, []string{"outcome"}),
		mlRequestDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "ml_request_duration_seconds",
			Help:      "Latency of calls to the recommendation service.",
			Buckets:   prometheus.DefBuckets,
		}),
		breakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),
		syncs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Repository syncs by outcome.",
		}, []string{"outcome"}),
		skippedNodes: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "skipped_nodes_total",
			Help:      "Repository nodes dropped during normalization.",
		}),
		skillsUpserted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "skills_upserted_total",
			Help:      "User skill scores written.",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecommendationServed counts one recommendation response by outcome.
func (m *Metrics) RecommendationServed(outcome string) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(outcome).Inc()
}

// MLRequestObserved records the latency of one recommendation service call.
func (m *Metrics) MLRequestObserved(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.mlRequestDuration.Observe(elapsed.Seconds())
}

// BreakerStateChanged sets the breaker gauge: 0 closed, 1 half-open, 2 open.
func (m *Metrics) BreakerStateChanged(name string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(state)
}

// SyncFinished counts one sync run by outcome.
func (m *Metrics) SyncFinished(outcome string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(outcome).Inc()
}

// NodesSkipped adds n repository nodes dropped during normalization.
func (m *Metrics) NodesSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedNodes.Add(float64(n))
}

// SkillsUpserted adds n written skill scores.
func (m *Metrics) SkillsUpserted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skillsUpserted.Add(float64(n))
}

// HTTPRequest counts one served request by route pattern and status code.
func (m *Metrics) HTTPRequest(route string, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, code).Inc()
}
