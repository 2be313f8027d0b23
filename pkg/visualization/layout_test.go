package visualization

import (
	"math"
	"testing"
)

// TestCircularPositions tests circular seeding
func TestCircularPositions(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	positions := CircularPositions(ids, 400, 400, 50)

	if len(positions) != len(ids) {
		t.Fatalf("Expected %d positions, got %d", len(ids), len(positions))
	}

	// All distances should equal the radius
	for _, id := range ids {
		d := distance(positions[id], Position{X: 200, Y: 200})
		if math.Abs(d-150) > 1e-9 {
			t.Errorf("Node %s at distance %f, want 150", id, d)
		}
	}

	if len(CircularPositions(nil, 400, 400, 50)) != 0 {
		t.Error("Expected no positions for no ids")
	}
}

func TestInitialPositionsOption(t *testing.T) {
	seed := CircularPositions([]string{"a", "b"}, 960, 640, 50)
	sim := NewSimulator(pairGraph(), SimulationConfig{}, WithInitialPositions(seed))

	p := sim.Positions()
	if p["a"] != seed["a"] || p["b"] != seed["b"] {
		t.Errorf("Expected seeded positions, got %v", p)
	}
}

func TestPhyllotaxisSpreadsNodes(t *testing.T) {
	seen := make([]Position, 0, 50)
	for i := range 50 {
		p := phyllotaxis(i, 0, 0, 10)
		for _, q := range seen {
			if distance(p, q) < 1 {
				t.Fatalf("Node %d placed on top of an earlier node", i)
			}
		}
		seen = append(seen, p)
	}
}

// TestViewportRoundTrip tests that screen and world conversions invert each other
func TestViewportRoundTrip(t *testing.T) {
	positions := map[string]Position{
		"a": {X: -100, Y: 20},
		"b": {X: 300, Y: 220},
	}
	v := FitViewport(positions, 80, 24, 1)

	a := v.ToScreen(positions["a"])
	b := v.ToScreen(positions["b"])
	if a.X != 1 || a.Y != 1 || b.X != 79 || b.Y != 23 {
		t.Errorf("Unexpected screen mapping a=%v b=%v", a, b)
	}

	back := v.ToWorld(b)
	if math.Abs(back.X-300) > 1e-9 || math.Abs(back.Y-220) > 1e-9 {
		t.Errorf("Round trip gave %v", back)
	}
}

func TestViewportSingleNodeCentered(t *testing.T) {
	v := FitViewport(map[string]Position{"a": {X: 5, Y: 5}}, 100, 50, 0)
	p := v.ToScreen(Position{X: 5, Y: 5})
	if p.X != 50 || p.Y != 25 {
		t.Errorf("Expected centered node, got %v", p)
	}

	empty := FitViewport(nil, 100, 50, 0)
	if empty.RangeX != 1 || empty.RangeY != 1 {
		t.Error("Empty viewport should have unit ranges")
	}
}
