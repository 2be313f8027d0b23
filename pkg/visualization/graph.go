package visualization

import (
	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

// DropCounts tallies what Build left out of a graph
type DropCounts struct {
	BelowThreshold int // edges with score <= threshold
	Dangling       int // edges naming a site that is not in the working set
	SelfLoop       int
	Duplicate      int // repeated unordered pairs
	DuplicateNode  int // sites whose ID was already taken
}

// Graph is a node arena plus links resolved to arena indices.
type Graph struct {
	Nodes   []Node
	Links   []Link
	Dropped DropCounts

	index map[string]int
}

// Build turns a working set and its similarity edges into a graph.
// Only edges scoring strictly above threshold are kept. Edges whose endpoints
// are missing from set are dropped without error, since a stale edge list is
// expected while the working set is being edited.
func Build(set []sites.Site, edges []similarity.Edge, threshold float64) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(set)),
		Links: make([]Link, 0),
		index: make(map[string]int, len(set)),
	}

	for _, s := range set {
		if _, exists := g.index[s.ID]; exists {
			g.Dropped.DuplicateNode++
			continue
		}
		g.index[s.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{ID: s.ID, Site: s})
	}

	seen := make(map[[2]int]bool)
	for _, e := range edges {
		if !(e.Score > threshold) {
			g.Dropped.BelowThreshold++
			continue
		}
		src, okA := g.index[e.A]
		tgt, okB := g.index[e.B]
		if !okA || !okB {
			g.Dropped.Dangling++
			continue
		}
		if src == tgt {
			g.Dropped.SelfLoop++
			continue
		}
		key := [2]int{min(src, tgt), max(src, tgt)}
		if seen[key] {
			g.Dropped.Duplicate++
			continue
		}
		seen[key] = true
		g.Links = append(g.Links, Link{Source: src, Target: tgt, Weight: e.Score})
	}

	return g
}

// Index resolves a site ID to its node index
func (g *Graph) Index(id string) (int, bool) {
	if g == nil {
		return 0, false
	}
	i, ok := g.index[id]
	return i, ok
}

// Neighbors returns the indices linked to node i
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for _, l := range g.Links {
		switch i {
		case l.Source:
			out = append(out, l.Target)
		case l.Target:
			out = append(out, l.Source)
		}
	}
	return out
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// reindex rebuilds the ID lookup, e.g. for graphs assembled by hand
func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, exists := g.index[n.ID]; !exists {
			g.index[n.ID] = i
		}
	}
}
