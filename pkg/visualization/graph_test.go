package visualization

import (
	"testing"

	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

func testSites(ids ...string) []sites.Site {
	out := make([]sites.Site, len(ids))
	for i, id := range ids {
		out[i] = sites.Site{ID: id, Name: id}
	}
	return out
}

// TestBuildThreshold tests link inclusion around the default threshold
func TestBuildThreshold(t *testing.T) {
	set := testSites("a", "b", "c")
	edges := []similarity.Edge{
		{A: "a", B: "b", Score: 0.25},
		{A: "a", B: "c", Score: 0.1},
		{A: "b", B: "c", Score: 0.2}, // equal to threshold: excluded
	}

	g := Build(set, edges, DefaultThreshold)

	if len(g.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(g.Links))
	}
	l := g.Links[0]
	if g.Nodes[l.Source].ID != "a" || g.Nodes[l.Target].ID != "b" {
		t.Errorf("Unexpected link %+v", l)
	}
	if l.Weight != 0.25 {
		t.Errorf("Expected weight 0.25, got %f", l.Weight)
	}
	if g.Dropped.BelowThreshold != 2 {
		t.Errorf("Expected 2 below-threshold drops, got %d", g.Dropped.BelowThreshold)
	}
}

// TestBuildDropsDanglingEdges tests that edges to removed sites never reach the simulator
func TestBuildDropsDanglingEdges(t *testing.T) {
	set := testSites("a", "b")
	edges := []similarity.Edge{
		{A: "a", B: "removed", Score: 0.9},
		{A: "gone", B: "b", Score: 1.0},
		{A: "a", B: "b", Score: 0.5},
	}

	g := Build(set, edges, DefaultThreshold)

	if len(g.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(g.Links))
	}
	if g.Dropped.Dangling != 2 {
		t.Errorf("Expected 2 dangling drops, got %d", g.Dropped.Dangling)
	}
	for _, l := range g.Links {
		if l.Source < 0 || l.Source >= len(g.Nodes) || l.Target < 0 || l.Target >= len(g.Nodes) {
			t.Errorf("Link %+v points outside the node arena", l)
		}
	}
}

func TestBuildDuplicatesAndSelfLoops(t *testing.T) {
	set := append(testSites("a", "b"), sites.Site{ID: "a", Name: "shadow"})
	edges := []similarity.Edge{
		{A: "a", B: "b", Score: 0.5},
		{A: "b", B: "a", Score: 0.5},
		{A: "a", B: "a", Score: 1},
	}

	g := Build(set, edges, DefaultThreshold)

	if len(g.Nodes) != 2 || g.Nodes[0].Site.Name != "a" {
		t.Errorf("Expected first occurrence of a to win, got %+v", g.Nodes)
	}
	if len(g.Links) != 1 {
		t.Errorf("Expected 1 link, got %d", len(g.Links))
	}
	if g.Dropped.Duplicate != 1 || g.Dropped.SelfLoop != 1 || g.Dropped.DuplicateNode != 1 {
		t.Errorf("Unexpected drop counts %+v", g.Dropped)
	}
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil, nil, DefaultThreshold)
	if g.Len() != 0 || len(g.Links) != 0 {
		t.Errorf("Expected empty graph, got %d nodes %d links", g.Len(), len(g.Links))
	}
	if _, ok := g.Index("anything"); ok {
		t.Error("Index on empty graph should fail")
	}
}

func TestGraphNeighbors(t *testing.T) {
	set := testSites("a", "b", "c")
	g := Build(set, []similarity.Edge{
		{A: "a", B: "b", Score: 0.5},
		{A: "c", B: "a", Score: 0.5},
	}, DefaultThreshold)

	i, _ := g.Index("a")
	if got := g.Neighbors(i); len(got) != 2 {
		t.Errorf("Expected 2 neighbors of a, got %v", got)
	}
}

// TestBuildFromComputedEdges runs the full engine-to-builder path
func TestBuildFromComputedEdges(t *testing.T) {
	set := []sites.Site{
		{ID: "a", Artifacts: []sites.Artifact{{Material: "Terracotta"}, {Material: "Iron"}, {Material: "Gold"}}},
		{ID: "b", Artifacts: []sites.Artifact{{Material: "Terracotta"}, {Material: "Glass"}}},
		{ID: "c", Artifacts: []sites.Artifact{{Material: "Bone"}}},
	}

	g := Build(set, similarity.ComputeEdges(set, similarity.DefaultOptions()), DefaultThreshold)

	if len(g.Links) != 1 {
		t.Fatalf("Expected only the 0.25 pair to survive, got %d links", len(g.Links))
	}
}
