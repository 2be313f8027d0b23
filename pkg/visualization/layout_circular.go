package visualization

import "math"

// initialAngle is the golden angle used for phyllotaxis placement
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// phyllotaxis places the i-th node on a sunflower spiral around (cx, cy).
// Successive nodes never coincide, so no two start at the same point.
func phyllotaxis(i int, cx, cy, radius float64) Position {
	r := radius * math.Sqrt(0.5+float64(i))
	angle := float64(i) * initialAngle
	return Position{
		X: cx + r*math.Cos(angle),
		Y: cy + r*math.Sin(angle),
	}
}

// CircularPositions arranges ids evenly on a circle inside a width x height
// canvas, leaving padding at the edges. It can seed a simulation with a
// readable starting picture.
func CircularPositions(ids []string, width, height, padding float64) map[string]Position {
	positions := make(map[string]Position, len(ids))
	if len(ids) == 0 {
		return positions
	}

	centerX := width / 2
	centerY := height / 2
	radius := math.Min(centerX, centerY) - padding

	angleStep := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		angle := float64(i) * angleStep
		positions[id] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}
