// ABOUTME: Prometheus metrics for the storegate HTTP surface
// ABOUTME: Own registry so tests don't collide on the global default

package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters for the authentication endpoints.
type Metrics struct {
	registry       *prometheus.Registry
	loginAttempts  *prometheus.CounterVec
	sessionsIssued prometheus.Counter
}

// NewMetrics creates a Metrics with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storegate_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"success"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storegate_sessions_issued_total",
			Help: "Bearer sessions issued.",
		}),
	}

	m.registry.MustRegister(m.loginAttempts, m.sessionsIssued)
	return m
}

// RecordLoginAttempt counts a verification attempt by outcome.
func (m *Metrics) RecordLoginAttempt(success bool) {
	m.loginAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordSessionIssued counts an issued session.
func (m *Metrics) RecordSessionIssued() {
	m.sessionsIssued.Inc()
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
