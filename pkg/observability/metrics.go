package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Metrics holds the circuit's Prometheus collectors.
type Metrics struct {
	Fires    *prometheus.CounterVec
	Emitted  prometheus.Counter
	Arrivals prometheus.Counter
	Ticks    prometheus.Counter
	InFlight prometheus.Gauge
	Travel   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "circuit",
				Name:      "node_fires_total",
				Help:      "Total number of node fires",
			},
			[]string{"mode", "trigger"},
		),
		Emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circuit",
			Name:      "signals_emitted_total",
			Help:      "Total number of signals sent down an edge",
		}),
		Arrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circuit",
			Name:      "signals_arrived_total",
			Help:      "Total number of signals that reached the end of their edge",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circuit",
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks",
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "circuit",
			Name:      "signals_in_flight",
			Help:      "Signals travelling at the end of the last tick",
		}),
		Travel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "circuit",
			Name:      "edge_length_units",
			Help:      "Length of edges at the moment a signal arrived",
			Buckets:   prometheus.ExponentialBuckets(12.5, 2, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Fires, m.Emitted, m.Arrivals, m.Ticks, m.InFlight, m.Travel)
	}
	return m
}

// Hooks returns lifecycle hooks that update m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFire: func(e *domain.FireEvent) {
			trigger := "signal"
			if e.Manual {
				trigger = "manual"
			}
			m.Fires.WithLabelValues(e.Mode.String(), trigger).Inc()
		},
		OnEmit: func(*domain.SignalEvent) {
			m.Emitted.Inc()
		},
		OnArrive: func(e *domain.SignalEvent) {
			m.Arrivals.Inc()
			m.Travel.Observe(e.Length)
		},
		OnTick: func(_ uint64, inFlight int) {
			m.Ticks.Inc()
			m.InFlight.Set(float64(inFlight))
		},
	}
}
