package visualization

import (
	"math"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
)

// jiggle returns a tiny random offset used to separate coincident nodes
func (s *Simulator) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// applyManyBody adds pairwise repulsion (or attraction for positive charge)
// with magnitude |charge|*alpha/distance. Exact O(n²); working sets are small.
func (s *Simulator) applyManyBody(alpha float64) {
	nodes := s.graph.Nodes
	strength := s.config.Charge * alpha
	distanceMin2 := s.config.DistanceMin * s.config.DistanceMin

	for i := range nodes {
		a := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := &nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			if dx == 0 {
				dx = s.jiggle()
			}
			if dy == 0 {
				dy = s.jiggle()
			}
			l := dx*dx + dy*dy
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}

			// dx/l scales as 1/distance along the unit direction
			w := strength / l
			a.VX += dx * w
			a.VY += dy * w
			b.VX -= dx * w
			b.VY -= dy * w
		}
	}
}

// applyLinks pulls linked nodes toward their rest distance. The correction is
// split between endpoints in inverse proportion to their degree.
func (s *Simulator) applyLinks(alpha float64) {
	nodes := s.graph.Nodes
	for k, link := range s.graph.Links {
		src := &nodes[link.Source]
		tgt := &nodes[link.Target]

		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}
		l := math.Sqrt(dx*dx + dy*dy)
		l = (l - link.Distance) / l * alpha * s.linkStrength[k]
		dx *= l
		dy *= l

		bias := s.linkBias[k]
		tgt.VX -= dx * bias
		tgt.VY -= dy * bias
		src.VX += dx * (1 - bias)
		src.VY += dy * (1 - bias)
	}
}

// applyCenter nudges the velocity of every free node so the centroid drifts
// toward the canvas center.
func (s *Simulator) applyCenter() {
	nodes := s.graph.Nodes
	if len(nodes) == 0 {
		return
	}

	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	dx := (sx/n - s.config.Width/2) * s.config.CenterStrength
	dy := (sy/n - s.config.Height/2) * s.config.CenterStrength

	for i := range nodes {
		if nodes[i].Pinned {
			continue
		}
		nodes[i].VX -= dx
		nodes[i].VY -= dy
	}
}

// applyCollision separates nodes whose predicted circles overlap. It is not
// scaled by alpha, so overlap keeps being resolved after cooling.
func (s *Simulator) applyCollision() {
	nodes := s.graph.Nodes
	r := 2 * s.config.CollisionRadius
	r2 := r * r

	for i := range nodes {
		a := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := &nodes[j]
			dx := (a.X + a.VX) - (b.X + b.VX)
			dy := (a.Y + a.VY) - (b.Y + b.VY)
			l := dx*dx + dy*dy
			if l >= r2 {
				continue
			}
			if dx == 0 {
				dx = s.jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = s.jiggle()
				l += dy * dy
			}
			l = math.Sqrt(l)
			l = (r - l) / l * s.config.CollisionStrength

			// equal radii split the correction evenly
			dx *= l * 0.5
			dy *= l * 0.5
			a.VX += dx
			a.VY += dy
			b.VX -= dx
			b.VY -= dy
		}
	}
}

// integrate applies friction and advances positions one step.
// Pinned nodes are written to their pin and lose all velocity.
func (s *Simulator) integrate() {
	keep := 1 - s.config.VelocityDecay
	nodes := s.graph.Nodes
	for i := range nodes {
		n := &nodes[i]
		if n.Pinned {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
}

// sanitize replaces non-finite coordinates and velocities with zero and
// returns how many values were coerced.
func (s *Simulator) sanitize() int {
	coerced := 0
	fix := func(v *float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
			coerced++
		}
	}
	nodes := s.graph.Nodes
	for i := range nodes {
		before := coerced
		n := &nodes[i]
		fix(&n.X)
		fix(&n.Y)
		fix(&n.VX)
		fix(&n.VY)
		if n.Pinned {
			fix(&n.FX)
			fix(&n.FY)
		}
		if coerced > before {
			s.logger.Warn("coerced non-finite node state to zero",
				logging.SiteID(n.ID), logging.Int("values", coerced-before))
		}
	}
	return coerced
}
