package similarity

import (
	"sort"
	"strings"

	"github.com/dd0wney/cluso-affinity/pkg/parallel"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

// Edge is the similarity of an unordered pair of sites.
type Edge struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}

// Involves reports whether the edge touches the given site
func (e Edge) Involves(id string) bool {
	return e.A == id || e.B == id
}

// Other returns the endpoint opposite id
func (e Edge) Other(id string) string {
	if e.A == id {
		return e.B
	}
	return e.A
}

// Explain fills Explanation with the materials the two sites share.
// It is computed on demand, never during ComputeEdges.
func (e *Edge) Explain(a, b sites.Site) string {
	shared := SharedMaterials(a, b)
	if len(shared) == 0 {
		e.Explanation = "no shared materials"
	} else {
		e.Explanation = "shared materials: " + strings.Join(shared, ", ")
	}
	return e.Explanation
}

// ComputeEdges scores every unordered pair of distinct sites exactly once.
// The result is recomputed from scratch on every call. Pairs are ordered by
// (i, j) with i < j regardless of Options.Workers.
func ComputeEdges(set []sites.Site, opts Options) []Edge {
	n := len(set)
	if n < 2 {
		return []Edge{}
	}

	// Pre-compute all material sets
	materials := make([]map[string]bool, n)
	for i, s := range set {
		materials[i] = MaterialSet(s)
	}

	edges := make([]Edge, n*(n-1)/2)
	row := func(i int) {
		k := rowOffset(i, n)
		for j := i + 1; j < n; j++ {
			edges[k] = Edge{
				A:     set[i].ID,
				B:     set[j].ID,
				Score: compute(materials[i], materials[j], opts.Metric),
			}
			k++
		}
	}

	if opts.Workers > 1 && n >= parallelMinSites {
		// Rows write disjoint ranges of edges, so no locking is needed.
		if err := parallel.For(opts.Workers, n-1, nil, row); err == nil {
			return edges
		}
	}
	for i := range n - 1 {
		row(i)
	}
	return edges
}

// parallelMinSites is the smallest working set scored on a worker pool
const parallelMinSites = 64

// rowOffset is the index of pair (i, i+1) in the flattened upper triangle
func rowOffset(i, n int) int {
	return i*n - i*(i+1)/2
}

// Matrix is a dense, symmetric score table for tabular display.
type Matrix struct {
	IDs    []string
	Scores [][]float64
	index  map[string]int
}

// NewMatrix lays the edges out over the given site order. The diagonal is 1
// for sites that have materials and 0 otherwise.
func NewMatrix(set []sites.Site, edges []Edge) *Matrix {
	m := &Matrix{
		IDs:    make([]string, len(set)),
		Scores: make([][]float64, len(set)),
		index:  make(map[string]int, len(set)),
	}
	for i, s := range set {
		m.IDs[i] = s.ID
		m.index[s.ID] = i
		m.Scores[i] = make([]float64, len(set))
		if len(MaterialSet(s)) > 0 {
			m.Scores[i][i] = 1
		}
	}
	for _, e := range edges {
		i, okA := m.index[e.A]
		j, okB := m.index[e.B]
		if !okA || !okB || i == j {
			continue
		}
		m.Scores[i][j] = e.Score
		m.Scores[j][i] = e.Score
	}
	return m
}

// Get returns the score of a pair, or 0 when either site is unknown
func (m *Matrix) Get(a, b string) float64 {
	i, okA := m.index[a]
	j, okB := m.index[b]
	if !okA || !okB {
		return 0
	}
	return m.Scores[i][j]
}

// Neighbor is one entry of a Top listing
type Neighbor struct {
	ID    string
	Score float64
}

// Top returns up to k sites most similar to id, sorted descending by score.
// Zero scores are excluded; k <= 0 means all.
func (m *Matrix) Top(id string, k int) []Neighbor {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	var out []Neighbor
	for j, score := range m.Scores[i] {
		if j == i || score == 0 {
			continue
		}
		out = append(out, Neighbor{ID: m.IDs[j], Score: score})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
