package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records gateway traffic. A nil *Metrics records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        *prometheus.GaugeVec
	SessionsCleared prometheus.Counter
}

// NewMetrics creates the gateway collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "freelance_agent",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Backend calls by method, route template and outcome.",
			},
			[]string{"method", "route", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "freelance_agent",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Backend call latency distributions.",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route", "outcome"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "freelance_agent",
				Subsystem: "gateway",
				Name:      "in_flight_requests",
				Help:      "Current number of in-flight backend calls.",
			},
			[]string{"method", "route"},
		),
		SessionsCleared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "freelance_agent",
				Subsystem: "gateway",
				Name:      "sessions_cleared_total",
				Help:      "Sessions cleared after the backend answered 401.",
			},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.InFlight, m.SessionsCleared)

	return m
}

func (m *Metrics) begin(method, route string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}

	start := time.Now()
	m.InFlight.WithLabelValues(method, route).Inc()

	return func(outcome string) {
		m.InFlight.WithLabelValues(method, route).Dec()
		m.RequestsTotal.WithLabelValues(method, route, outcome).Inc()
		m.RequestDuration.WithLabelValues(method, route, outcome).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) sessionCleared() {
	if m == nil {
		return
	}
	m.SessionsCleared.Inc()
}
