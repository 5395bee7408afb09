// Package metrics provides Prometheus metrics for supportdesk and
// instrumenting wrappers for the driving ports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Agent label values.
const (
	AgentPolicy   = "policy"
	AgentCustomer = "customer"
	AgentRouter   = "router"
)

// Metrics holds all Prometheus metrics on a private registry.
type Metrics struct {
	RoutesTotal   *prometheus.CounterVec
	AgentDuration *prometheus.HistogramVec
	AgentErrors   *prometheus.CounterVec
	ChunksIndexed prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RoutesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportdesk_routes_total",
				Help: "Total number of questions routed, by chosen route",
			},
			[]string{"route"},
		),

		AgentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "supportdesk_agent_duration_seconds",
				Help:    "Duration of agent calls in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"agent"},
		),

		AgentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportdesk_agent_errors_total",
				Help: "Total number of agent calls that returned an error",
			},
			[]string{"agent"},
		),

		ChunksIndexed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "supportdesk_chunks_indexed_total",
				Help: "Total number of policy chunks written to the vector store",
			},
		),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAgentCall records one agent call.
func (m *Metrics) RecordAgentCall(agent string, duration time.Duration, err error) {
	m.AgentDuration.WithLabelValues(agent).Observe(duration.Seconds())
	if err != nil {
		m.AgentErrors.WithLabelValues(agent).Inc()
	}
}
