package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

// Metric selects which overlap formula to use.
type Metric int

const (
	MetricJaccard Metric = iota // |A∩B| / |A∪B|
	MetricOverlap               // |A∩B| / min(|A|,|B|)
	MetricCosine                // |A∩B| / sqrt(|A|×|B|)
)

// String returns the metric name used in configuration files
func (m Metric) String() string {
	switch m {
	case MetricJaccard:
		return "jaccard"
	case MetricOverlap:
		return "overlap"
	case MetricCosine:
		return "cosine"
	default:
		return "unknown"
	}
}

// ParseMetric converts a configuration name to a Metric, defaulting to Jaccard
func ParseMetric(s string) Metric {
	switch strings.ToLower(s) {
	case "overlap":
		return MetricOverlap
	case "cosine":
		return MetricCosine
	default:
		return MetricJaccard
	}
}

// Options configures edge computation.
type Options struct {
	Metric  Metric
	Workers int // pool size for large working sets; <= 1 scores on the caller's goroutine
}

// DefaultOptions returns the Jaccard configuration.
func DefaultOptions() Options {
	return Options{Metric: MetricJaccard}
}

// MaterialSet builds the lower-cased, deduplicated set of a site's artifact
// materials. Blank materials are ignored.
func MaterialSet(s sites.Site) map[string]bool {
	set := make(map[string]bool, len(s.Artifacts))
	for _, a := range s.Artifacts {
		m := strings.ToLower(strings.TrimSpace(a.Material))
		if m != "" {
			set[m] = true
		}
	}
	return set
}

// Score returns the Jaccard similarity of two sites' material sets.
// Two sites without artifacts score 0.
func Score(a, b sites.Site) float64 {
	return compute(MaterialSet(a), MaterialSet(b), MetricJaccard)
}

// ScoreWith returns the similarity of two sites under the given metric
func ScoreWith(a, b sites.Site, metric Metric) float64 {
	return compute(MaterialSet(a), MaterialSet(b), metric)
}

// SharedMaterials returns the sorted intersection of two sites' material sets.
func SharedMaterials(a, b sites.Site) []string {
	return intersect(MaterialSet(a), MaterialSet(b))
}

// compute calculates the similarity between two material sets.
func compute(setA, setB map[string]bool, metric Metric) float64 {
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	// Iterate over the smaller set
	intersection := 0
	small, big := setA, setB
	if len(setA) > len(setB) {
		small, big = setB, setA
	}
	for m := range small {
		if big[m] {
			intersection++
		}
	}

	if intersection == 0 {
		return 0.0
	}

	switch metric {
	case MetricJaccard:
		union := len(setA) + len(setB) - intersection
		return float64(intersection) / float64(union)
	case MetricOverlap:
		return float64(intersection) / float64(min(len(setA), len(setB)))
	case MetricCosine:
		return float64(intersection) / math.Sqrt(float64(len(setA))*float64(len(setB)))
	default:
		return 0.0
	}
}

func intersect(setA, setB map[string]bool) []string {
	small, big := setA, setB
	if len(setA) > len(setB) {
		small, big = setB, setA
	}
	shared := make([]string, 0, len(small))
	for m := range small {
		if big[m] {
			shared = append(shared, m)
		}
	}
	sort.Strings(shared)
	return shared
}
