package visualization

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/metrics"
)

var (
	// ErrUnknownNode is returned for node IDs that are not in the current graph
	ErrUnknownNode = errors.New("unknown node")
	// ErrNotDragging is returned when moving or releasing a node that is not pinned
	ErrNotDragging = errors.New("node is not being dragged")
)

// Simulator is a force-directed layout that advances one step per Tick.
//
// It never schedules itself: a host (Loop, a UI frame callback, a test) calls
// Tick on its own cadence and stops calling when Tick returns false. All
// methods must be called from that same goroutine.
type Simulator struct {
	config SimulationConfig
	graph  *Graph

	alpha      float64
	state      State
	ticks      int
	generation uint64
	disposed   bool

	// per-link values derived from node degrees when a graph is installed
	linkStrength []float64
	linkBias     []float64

	rng     *rand.Rand
	initial map[string]Position
	logger  logging.Logger
	metrics *metrics.Registry
}

// SimulatorOption configures a Simulator
type SimulatorOption func(*Simulator)

// WithLogger sets the logger used for warnings and state changes
func WithLogger(l logging.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = logging.OrNop(l).With(logging.Component("simulator"))
	}
}

// WithMetrics reports ticks, reheats and convergence to a metrics registry
func WithMetrics(r *metrics.Registry) SimulatorOption {
	return func(s *Simulator) {
		s.metrics = r
	}
}

// WithInitialPositions seeds node positions by site ID. Nodes without an
// entry are placed on a phyllotaxis spiral around the canvas center.
func WithInitialPositions(p map[string]Position) SimulatorOption {
	return func(s *Simulator) {
		s.initial = p
	}
}

// NewSimulator takes ownership of g and starts in StateRunning with alpha at
// AlphaStart. A graph without nodes starts Converged.
func NewSimulator(g *Graph, config SimulationConfig, opts ...SimulatorOption) *Simulator {
	config = config.WithDefaults()
	s := &Simulator{
		config: config,
		rng:    rand.New(rand.NewPCG(config.Seed, 0x5eed)),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.install(g, nil)
	s.alpha = config.AlphaStart
	s.setState(StateRunning)
	if s.graph.Len() == 0 {
		s.setState(StateConverged)
	}
	return s
}

// install replaces the graph, carrying position and velocity over from prev
// for node IDs present in both. Nodes absent from g are forgotten.
func (s *Simulator) install(g *Graph, prev *Graph) {
	if g == nil {
		g = &Graph{}
	}
	if g.index == nil {
		g.reindex()
	}
	s.graph = g

	cx, cy := s.config.Width/2, s.config.Height/2
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if j, ok := prev.Index(n.ID); ok {
			old := prev.Nodes[j]
			n.X, n.Y, n.VX, n.VY = old.X, old.Y, old.VX, old.VY
			n.FX, n.FY, n.Pinned = old.FX, old.FY, old.Pinned
			continue
		}
		if p, ok := s.initial[n.ID]; ok {
			n.X, n.Y = p.X, p.Y
		} else {
			p := phyllotaxis(i, cx, cy, s.config.InitialRadius)
			n.X, n.Y = p.X, p.Y
		}
		n.VX, n.VY = 0, 0
	}

	degree := make([]int, len(g.Nodes))
	for k := range g.Links {
		if g.Links[k].Distance == 0 {
			g.Links[k].Distance = s.config.LinkDistance
		}
		degree[g.Links[k].Source]++
		degree[g.Links[k].Target]++
	}

	s.linkStrength = make([]float64, len(g.Links))
	s.linkBias = make([]float64, len(g.Links))
	for k, l := range g.Links {
		ds, dt := float64(degree[l.Source]), float64(degree[l.Target])
		strength := s.config.LinkStrength
		if strength == 0 {
			strength = 1 / min(ds, dt)
		}
		if s.config.WeightedLinks {
			strength *= l.Weight
		}
		s.linkStrength[k] = strength
		s.linkBias[k] = ds / (ds + dt)
	}

	s.metrics.SetGraphSize(len(g.Nodes), len(g.Links))
}

// Tick advances the simulation by one step and reports whether the host
// should keep calling it. Ticking a Cold or Converged simulator is a no-op.
func (s *Simulator) Tick() bool {
	if !s.Active() {
		return false
	}
	start := time.Now()

	s.metrics.RecordCoercion(s.sanitize())
	s.applyManyBody(s.alpha)
	s.applyLinks(s.alpha)
	s.applyCenter()
	s.applyCollision()
	s.integrate()
	s.ticks++

	target := 0.0
	if s.pinnedCount() > 0 {
		target = s.config.DragAlphaTarget
	}
	s.alpha += (target - s.alpha) * s.config.AlphaDecay
	s.metrics.RecordTick(s.alpha, time.Since(start))

	if s.alpha < s.config.AlphaMin {
		s.setState(StateConverged)
		s.metrics.RecordConvergence()
		s.logger.Debug("simulation converged", logging.Int("ticks", s.ticks), logging.Alpha(s.alpha))
		return false
	}
	return true
}

// Start reheats the simulation and resumes ticking from any state.
func (s *Simulator) Start() {
	s.reheat("start")
}

// Stop suspends ticking without touching positions. Start resumes.
func (s *Simulator) Stop() {
	if s.disposed {
		return
	}
	s.setState(StateCold)
}

// Dispose stops the simulator for good and invalidates its generation, so any
// frame callback still pending for it can recognise itself as stale.
func (s *Simulator) Dispose() {
	if s.disposed {
		return
	}
	s.setState(StateCold)
	s.generation++
	s.disposed = true
}

// SetGraph replaces the node and link set. Surviving nodes keep their
// position and velocity; the simulation is reheated to StateRunning.
func (s *Simulator) SetGraph(g *Graph) {
	if s.disposed {
		return
	}
	prev := s.graph
	s.install(g, prev)
	s.generation++
	s.logger.Debug("graph replaced", logging.Count(s.graph.Len()), logging.Int("links", len(s.graph.Links)))
	s.reheat("structure")
	if s.graph.Len() == 0 {
		s.setState(StateConverged)
	}
}

// Pin fixes node i at (x, y). The position is written immediately and on
// every tick until Unpin.
func (s *Simulator) Pin(i int, x, y float64) {
	n := &s.graph.Nodes[i]
	n.FX, n.FY, n.Pinned = x, y, true
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	s.refreshState()
}

// Unpin releases node i back to the forces
func (s *Simulator) Unpin(i int) {
	n := &s.graph.Nodes[i]
	n.Pinned = false
	s.refreshState()
}

// Index resolves a site ID in the current graph
func (s *Simulator) Index(id string) (int, bool) {
	return s.graph.Index(id)
}

// Node returns a pointer into the node arena; valid until the next SetGraph
func (s *Simulator) Node(i int) *Node {
	return &s.graph.Nodes[i]
}

// Graph returns the installed graph
func (s *Simulator) Graph() *Graph {
	return s.graph
}

// Positions returns a snapshot of every node's position keyed by site ID
func (s *Simulator) Positions() map[string]Position {
	out := make(map[string]Position, len(s.graph.Nodes))
	for i := range s.graph.Nodes {
		out[s.graph.Nodes[i].ID] = s.graph.Nodes[i].Position()
	}
	return out
}

// Alpha returns the current temperature
func (s *Simulator) Alpha() float64 { return s.alpha }

// Ticks returns the number of ticks taken so far
func (s *Simulator) Ticks() int { return s.ticks }

// Generation changes whenever the graph is replaced or the simulator disposed
func (s *Simulator) Generation() uint64 { return s.generation }

// Config returns the effective configuration
func (s *Simulator) Config() SimulationConfig { return s.config }

// State returns the current scheduling state
func (s *Simulator) State() State { return s.state }

// Active reports whether the host should be scheduling ticks
func (s *Simulator) Active() bool {
	return s.state == StateRunning || s.state == StateDragging
}

func (s *Simulator) reheat(reason string) {
	if s.disposed {
		return
	}
	s.alpha = s.config.AlphaStart
	s.state = StateRunning
	s.refreshState()
	s.metrics.RecordReheat(reason)
	if s.graph.Len() == 0 {
		s.setState(StateConverged)
	}
}

func (s *Simulator) pinnedCount() int {
	c := 0
	for i := range s.graph.Nodes {
		if s.graph.Nodes[i].Pinned {
			c++
		}
	}
	return c
}

// refreshState switches between Running and Dragging as pins come and go
func (s *Simulator) refreshState() {
	if !s.Active() {
		return
	}
	if s.pinnedCount() > 0 {
		s.setState(StateDragging)
	} else {
		s.setState(StateRunning)
	}
}

func (s *Simulator) setState(state State) {
	if s.state == state {
		return
	}
	s.state = state
	s.metrics.SetSimulationState(state.String())
}
