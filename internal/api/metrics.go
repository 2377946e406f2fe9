package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the client-side API call collectors. A nil Registerer leaves
// them unregistered, which is what tests use.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_api_requests_total",
				Help: "API calls made by the POS client, by route and outcome",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pos_api_request_duration_seconds",
				Help:    "Latency of API calls made by the POS client",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pos_api_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.breakerState)
	}
	return m
}
