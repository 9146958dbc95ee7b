// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	togglesTotal          *prometheus.CounterVec
	fraudCascadesTotal    prometheus.Counter
	fraudIssuesDeleted    prometheus.Counter
	partialFailuresTotal  *prometheus.CounterVec
	authProviderDeletions *prometheus.CounterVec
}

func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.togglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_toggles_total",
			Help: "Like/save toggles by kind and resulting action",
		},
		[]string{"kind", "action"},
	)
	m.fraudCascadesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fraud_cascades_total",
		Help: "Role changes to Fraud that triggered an issue cascade",
	})
	m.fraudIssuesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fraud_cascade_issues_deleted_total",
		Help: "Issues deleted by the fraud cascade",
	})
	m.partialFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_partial_failures_total",
			Help: "Multi-write operations where the primary write landed but the cascade failed",
		},
		[]string{"operation"},
	)
	m.authProviderDeletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_provider_deletions_total",
			Help: "Auth-provider account deletions by result",
		},
		[]string{"result"},
	)

	cs := []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.togglesTotal,
		m.fraudCascadesTotal,
		m.fraudIssuesDeleted,
		m.partialFailuresTotal,
		m.authProviderDeletions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordToggle(kind, action string) {
	if m == nil {
		return
	}
	m.togglesTotal.WithLabelValues(kind, action).Inc()
}

func (m *Metrics) RecordFraudCascade(deleted int64) {
	if m == nil {
		return
	}
	m.fraudCascadesTotal.Inc()
	m.fraudIssuesDeleted.Add(float64(deleted))
}

func (m *Metrics) RecordPartialFailure(operation string) {
	if m == nil {
		return
	}
	m.partialFailuresTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordAuthProviderDeletion(result string) {
	if m == nil {
		return
	}
	m.authProviderDeletions.WithLabelValues(result).Inc()
}
