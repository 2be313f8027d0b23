package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_graph_nodes",
			Help: "Number of nodes in the current graph",
		},
	)

	r.GraphLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_graph_links",
			Help: "Number of links in the current graph",
		},
	)

	r.GraphLinksDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_graph_links_dropped_total",
			Help: "Total number of similarity edges dropped during graph construction",
		},
		[]string{"reason"},
	)
}

func (r *Registry) initSimilarityMetrics() {
	r.SimilarityPairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_similarity_pairs_total",
			Help: "Total number of site pairs scored",
		},
	)

	r.SimilarityDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_similarity_duration_seconds",
			Help:    "Duration of a full pairwise similarity computation",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)
}
