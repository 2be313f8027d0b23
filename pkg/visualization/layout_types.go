package visualization

import (
	"math"

	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultThreshold is the minimum similarity score (exclusive) for a link
const DefaultThreshold = 0.2

// SimulationConfig configures the force simulation. Zero fields take the
// defaults listed on each field.
type SimulationConfig struct {
	Width  float64 `yaml:"width" toml:"width"`   // Canvas width (960)
	Height float64 `yaml:"height" toml:"height"` // Canvas height (640)

	Charge            float64 `yaml:"charge" toml:"charge"`                         // Many-body strength, negative repels (-400)
	DistanceMin       float64 `yaml:"distance_min" toml:"distance_min"`             // Many-body softening distance (1)
	LinkDistance      float64 `yaml:"link_distance" toml:"link_distance"`           // Link rest length (220)
	LinkStrength      float64 `yaml:"link_strength" toml:"link_strength"`           // Spring stiffness; 0 means 1/min(degree)
	WeightedLinks     bool    `yaml:"weighted_links" toml:"weighted_links"`         // Scale spring stiffness by link weight
	CenterStrength    float64 `yaml:"center_strength" toml:"center_strength"`       // Corrective velocity gain toward canvas center (0.1)
	CollisionRadius   float64 `yaml:"collision_radius" toml:"collision_radius"`     // Per-node collision radius (50)
	CollisionStrength float64 `yaml:"collision_strength" toml:"collision_strength"` // Overlap correction per tick, 0..1 (1)

	AlphaStart      float64 `yaml:"alpha_start" toml:"alpha_start"`             // Reheat value (1)
	AlphaMin        float64 `yaml:"alpha_min" toml:"alpha_min"`                 // Stopping epsilon (0.001)
	AlphaDecay      float64 `yaml:"alpha_decay" toml:"alpha_decay"`             // Per-tick decay, 1 - 0.001^(1/300)
	VelocityDecay   float64 `yaml:"velocity_decay" toml:"velocity_decay"`       // Friction applied each tick (0.4)
	DragAlphaTarget float64 `yaml:"drag_alpha_target" toml:"drag_alpha_target"` // Alpha floor while a node is pinned (0.3)
	InitialRadius   float64 `yaml:"initial_radius" toml:"initial_radius"`       // Phyllotaxis seed spacing (10)
	Seed            uint64  `yaml:"seed" toml:"seed"`                           // Jiggle source seed
}

// DefaultSimulationConfig returns the standard configuration
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{}.WithDefaults()
}

// WithDefaults returns a copy with every zero field replaced by its default
func (c SimulationConfig) WithDefaults() SimulationConfig {
	if c.Width == 0 {
		c.Width = 960
	}
	if c.Height == 0 {
		c.Height = 640
	}
	if c.Charge == 0 {
		c.Charge = -400
	}
	if c.DistanceMin == 0 {
		c.DistanceMin = 1
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = 220
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = 0.1
	}
	if c.CollisionRadius == 0 {
		c.CollisionRadius = 50
	}
	if c.CollisionStrength == 0 {
		c.CollisionStrength = 1
	}
	if c.AlphaStart == 0 {
		c.AlphaStart = 1
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.001
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1.0/300)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = 0.4
	}
	if c.DragAlphaTarget == 0 {
		c.DragAlphaTarget = 0.3
	}
	if c.InitialRadius == 0 {
		c.InitialRadius = 10
	}
	return c
}

// State is the simulator's scheduling state
type State int

const (
	// StateCold means no ticks are scheduled
	StateCold State = iota
	// StateRunning means the simulator wants a tick on every frame
	StateRunning
	// StateDragging is Running with at least one node pinned by the pointer
	StateDragging
	// StateConverged means alpha fell below AlphaMin; a reheat resumes ticking
	StateConverged
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateRunning:
		return "running"
	case StateDragging:
		return "dragging"
	case StateConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// Node is the simulated counterpart of a site.
// FX/FY hold the pinned position and are only meaningful while Pinned is set.
type Node struct {
	ID     string
	Site   sites.Site
	X, Y   float64
	VX, VY float64
	FX, FY float64
	Pinned bool
}

// Position returns the node's current coordinates
func (n *Node) Position() Position {
	return Position{X: n.X, Y: n.Y}
}

// Link connects two nodes by their index in Graph.Nodes.
type Link struct {
	Source   int
	Target   int
	Weight   float64 // originating similarity score
	Distance float64 // rest length; filled from SimulationConfig when zero
}
