package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_simulation_ticks_total",
			Help: "Total number of force simulation ticks",
		},
	)

	r.SimulationTickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_simulation_tick_duration_seconds",
			Help:    "Duration of a single simulation tick in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.016, 0.05},
		},
	)

	r.SimulationAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_simulation_alpha",
			Help: "Current simulation alpha (temperature)",
		},
	)

	r.SimulationState = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "affinity_simulation_state",
			Help: "Current simulation state (1 for the active state)",
		},
		[]string{"state"},
	)

	r.SimulationReheatsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_simulation_reheats_total",
			Help: "Total number of alpha resets by reason",
		},
		[]string{"reason"},
	)

	r.SimulationConvergencesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_simulation_convergences_total",
			Help: "Total number of times the simulation cooled below alpha min",
		},
	)

	r.SimulationCoercionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_simulation_coercions_total",
			Help: "Total number of non-finite node values coerced to zero",
		},
	)
}
