package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSimulationMetrics()
	r.initGraphMetrics()
	r.initSimilarityMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// All Record* and Set* methods are safe to call on a nil *Registry so that
// callers can leave metrics unconfigured.

// RecordTick records one simulation step
func (r *Registry) RecordTick(alpha float64, duration time.Duration) {
	if r == nil {
		return
	}
	r.SimulationTicksTotal.Inc()
	r.SimulationTickDuration.Observe(duration.Seconds())
	r.SimulationAlpha.Set(alpha)
}

// SetSimulationState marks state as the current simulation state
func (r *Registry) SetSimulationState(state string) {
	if r == nil {
		return
	}
	for _, s := range simulationStates {
		r.SimulationState.WithLabelValues(s).Set(0)
	}
	r.SimulationState.WithLabelValues(state).Set(1)
}

// RecordReheat records alpha being reset; reason is "drag", "structure" or "start"
func (r *Registry) RecordReheat(reason string) {
	if r == nil {
		return
	}
	r.SimulationReheatsTotal.WithLabelValues(reason).Inc()
}

// RecordConvergence records the simulation cooling below its stopping threshold
func (r *Registry) RecordConvergence() {
	if r == nil {
		return
	}
	r.SimulationConvergencesTotal.Inc()
}

// RecordCoercion records non-finite node values replaced with zero
func (r *Registry) RecordCoercion(n int) {
	if r == nil || n == 0 {
		return
	}
	r.SimulationCoercionsTotal.Add(float64(n))
}

// SetGraphSize records the size of the installed graph
func (r *Registry) SetGraphSize(nodes, links int) {
	if r == nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphLinks.Set(float64(links))
}

// RecordDroppedLinks records edges dropped while building a graph
func (r *Registry) RecordDroppedLinks(reason string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.GraphLinksDroppedTotal.WithLabelValues(reason).Add(float64(n))
}

// RecordSimilarity records a full pairwise similarity computation
func (r *Registry) RecordSimilarity(pairs int, duration time.Duration) {
	if r == nil {
		return
	}
	r.SimilarityPairsTotal.Add(float64(pairs))
	r.SimilarityDuration.Observe(duration.Seconds())
}
