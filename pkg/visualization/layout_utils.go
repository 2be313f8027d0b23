package visualization

import "math"

// Viewport maps simulation coordinates onto a target area (for example a
// terminal grid) and back, keeping a padding band at the edges.
type Viewport struct {
	MinX, MinY     float64
	RangeX, RangeY float64
	Width, Height  float64
	Padding        float64
}

// FitViewport computes a viewport that scales the bounding box of positions
// to fit a width x height area.
func FitViewport(positions map[string]Position, width, height, padding float64) Viewport {
	v := Viewport{Width: width, Height: height, Padding: padding, RangeX: 1, RangeY: 1}
	if len(positions) == 0 {
		return v
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	v.MinX, v.MinY = minX, minY
	v.RangeX, v.RangeY = maxX-minX, maxY-minY
	if v.RangeX < 0.01 {
		v.RangeX = 1
		v.MinX -= 0.5
	}
	if v.RangeY < 0.01 {
		v.RangeY = 1
		v.MinY -= 0.5
	}
	return v
}

// ToScreen converts a simulation position to target coordinates
func (v Viewport) ToScreen(p Position) Position {
	return Position{
		X: v.Padding + ((p.X-v.MinX)/v.RangeX)*(v.Width-2*v.Padding),
		Y: v.Padding + ((p.Y-v.MinY)/v.RangeY)*(v.Height-2*v.Padding),
	}
}

// ToWorld converts target coordinates back to a simulation position
func (v Viewport) ToWorld(p Position) Position {
	tw := v.Width - 2*v.Padding
	th := v.Height - 2*v.Padding
	if tw <= 0 {
		tw = 1
	}
	if th <= 0 {
		th = 1
	}
	return Position{
		X: v.MinX + ((p.X-v.Padding)/tw)*v.RangeX,
		Y: v.MinY + ((p.Y-v.Padding)/th)*v.RangeY,
	}
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	v := FitViewport(positions, width, height, padding)
	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		normalized[id] = v.ToScreen(pos)
	}
	return normalized
}

// NormalizedPositions returns the simulator's positions scaled into its canvas
func (s *Simulator) NormalizedPositions(padding float64) map[string]Position {
	return normalizePositions(s.Positions(), s.config.Width, s.config.Height, padding)
}
