package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments shared by the client core. Each
// Metrics owns its registry so several clients (and tests) can coexist.
type Metrics struct {
	Registry *prometheus.Registry

	GatewayRequests  *prometheus.CounterVec
	GatewayLatency   *prometheus.HistogramVec
	StaleSuggestions prometheus.Counter
	TaskRollbacks    prometheus.Counter
	Notifications    *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Remote calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_latency_ms",
			Help:      "Remote call latency in milliseconds.",
			Buckets:   []float64{25, 50, 100, 200, 400, 800, 1600, 3200},
		}, []string{"op"}),
		StaleSuggestions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_suggestions_total",
			Help:      "Suggestion responses dropped because a newer request superseded them.",
		}),
		TaskRollbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_rollbacks_total",
			Help:      "Optimistic task status changes reverted after a failed update.",
		}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications shown by level.",
		}, []string{"level"}),
	}
}

// ObserveCall records one gateway round trip. Safe on a nil receiver.
func (m *Metrics) ObserveCall(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.GatewayRequests.WithLabelValues(op, outcome).Inc()
	m.GatewayLatency.WithLabelValues(op).Observe(float64(d.Milliseconds()))
}

// StaleDropped counts a superseded suggestion response. Safe on a nil receiver.
func (m *Metrics) StaleDropped() {
	if m == nil {
		return
	}
	m.StaleSuggestions.Inc()
}

// RolledBack counts a reverted optimistic update. Safe on a nil receiver.
func (m *Metrics) RolledBack() {
	if m == nil {
		return
	}
	m.TaskRollbacks.Inc()
}

// Notified counts a notification by level. Safe on a nil receiver.
func (m *Metrics) Notified(level string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(level).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
