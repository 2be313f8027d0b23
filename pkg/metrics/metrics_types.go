package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Simulation Metrics
	SimulationTicksTotal        prometheus.Counter
	SimulationTickDuration      prometheus.Histogram
	SimulationAlpha             prometheus.Gauge
	SimulationState             *prometheus.GaugeVec
	SimulationReheatsTotal      *prometheus.CounterVec
	SimulationConvergencesTotal prometheus.Counter
	SimulationCoercionsTotal    prometheus.Counter

	// Graph Metrics
	GraphNodes             prometheus.Gauge
	GraphLinks             prometheus.Gauge
	GraphLinksDroppedTotal *prometheus.CounterVec

	// Similarity Metrics
	SimilarityPairsTotal prometheus.Counter
	SimilarityDuration   prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// Simulation states as reported by the state gauge
var simulationStates = []string{"cold", "running", "dragging", "converged"}
