// Package metrics exposes counter activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/mala/pkg/types"
)

const namespace = "mala"

// Metrics records counter events. It implements types.Observer.
type Metrics struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	cyclesCompleted prometheus.Counter
	goalsReached    prometheus.Counter
	count           prometheus.Gauge
	cycleCount      prometheus.Gauge
	completedCycles prometheus.Gauge
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of counter mutations by operation",
			},
			[]string{"op"},
		),
		cyclesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_completed_total",
			Help:      "Total number of cycles completed",
		}),
		goalsReached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_reached_total",
			Help:      "Total number of goal notifications",
		}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "count",
			Help:      "Current lifetime count",
		}),
		cycleCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycle_count",
			Help:      "Progress within the current cycle",
		}),
		completedCycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completed_cycles",
			Help:      "Number of completed cycles",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.cyclesCompleted,
		m.goalsReached,
		m.count,
		m.cycleCount,
		m.completedCycles,
	)
	return m
}

// Observe updates the collectors.
func (m *Metrics) Observe(e types.Event) {
	switch e.Kind {
	case types.EventCycleCompleted:
		m.cyclesCompleted.Inc()
	case types.EventGoalReached:
		m.goalsReached.Inc()
	case types.EventChanged:
		m.operations.WithLabelValues(e.Op).Inc()
		m.Set(e.State)
	}
}

// Set updates the gauges to s, used to seed them after loading.
func (m *Metrics) Set(s types.Snapshot) {
	m.count.Set(float64(s.Count))
	m.cycleCount.Set(float64(s.CycleCount))
	m.completedCycles.Set(float64(s.CompletedCycles))
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
