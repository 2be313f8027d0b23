// Package tui renders a live force-directed affinity graph in the terminal
// and turns mouse and keyboard input into drags on the simulation.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
	"github.com/dd0wney/cluso-affinity/pkg/visualization"
)

// Screen layout: a title row, then the bordered canvas.
const (
	canvasTop  = 2
	canvasLeft = 1

	reservedRows  = 12 // title, borders, status, table, help
	tableRows     = 5
	thresholdStep = 0.05
	labelWidth    = 12
)

// DefaultFrameInterval is used when Options.FrameInterval is zero
const DefaultFrameInterval = 33 * time.Millisecond

// Options configures a Model
type Options struct {
	FrameInterval time.Duration
	Threshold     float64
	Logger        logging.Logger
}

// frameMsg is one display frame. It carries the simulator generation it was
// scheduled for so frames outliving a graph replacement are ignored.
type frameMsg struct {
	generation uint64
}

// Model is the bubbletea model for the affinity view
type Model struct {
	sim       *visualization.Simulator
	drag      *visualization.Dragger
	set       []sites.Site
	byID      map[string]int
	edges     []similarity.Edge
	matrix    *similarity.Matrix
	threshold float64
	interval  time.Duration
	logger    logging.Logger

	keys  keyMap
	help  help.Model
	table table.Model

	width, height int
	cw, ch        int
	viewport      visualization.Viewport

	selected     int
	grabbed      string
	mouseDrag    bool
	framePending bool
	message      string
	messageErr   bool
}

// New creates a model driving sim. set and edges are kept so the graph can
// be rebuilt when the threshold changes.
func New(sim *visualization.Simulator, set []sites.Site, edges []similarity.Edge, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Threshold == 0 {
		opts.Threshold = visualization.DefaultThreshold
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("tui"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Site", Width: 20},
			{Title: "Score", Width: 7},
			{Title: "Shared materials", Width: 40},
		}),
		table.WithHeight(tableRows),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(s)

	m := Model{
		sim:          sim,
		drag:         visualization.NewDragger(sim, logger),
		set:          set,
		byID:         sites.Index(set),
		edges:        edges,
		matrix:       similarity.NewMatrix(set, edges),
		threshold:    opts.Threshold,
		interval:     opts.FrameInterval,
		logger:       logger,
		keys:         keys,
		help:         help.New(),
		table:        t,
		framePending: sim.Active(),
	}
	m.resize(80, 24)
	m.updateTable()
	return m
}

func (m Model) frame(generation uint64) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameMsg{generation: generation}
	})
}

// scheduleFrame requests the next frame while the simulator is active.
// At most one frame is in flight.
func (m *Model) scheduleFrame() tea.Cmd {
	if m.framePending || !m.sim.Active() {
		return nil
	}
	m.framePending = true
	return m.frame(m.sim.Generation())
}

func (m Model) Init() tea.Cmd {
	if m.framePending {
		return m.frame(m.sim.Generation())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		m.framePending = false
		if msg.generation != m.sim.Generation() {
			break
		}
		if m.sim.Active() {
			m.sim.Tick()
			m.refit()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.sim.Dispose()
			return m, tea.Quit
		case key.Matches(msg, m.keys.ShowHelp):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			m.cycle(1)
		case key.Matches(msg, m.keys.Prev):
			m.cycle(-1)
		case key.Matches(msg, m.keys.Grab):
			if m.grabbed != "" {
				m.endDrag()
			} else if id, ok := m.selectedID(); ok {
				m.startDrag(id)
			}
		case key.Matches(msg, m.keys.Up):
			m.nudge(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.nudge(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.nudge(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.nudge(1, 0)
		case key.Matches(msg, m.keys.Reheat):
			m.sim.Start()
			m.setMessage("reheated", nil)
		case key.Matches(msg, m.keys.Looser):
			m.setThreshold(m.threshold - thresholdStep)
		case key.Matches(msg, m.keys.Stricter):
			m.setThreshold(m.threshold + thresholdStep)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	return m, m.scheduleFrame()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := msg.X-canvasLeft, msg.Y-canvasTop

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.grabbed != "" {
			return
		}
		i, ok := m.hit(x, y)
		if !ok {
			return
		}
		m.selected = i
		m.updateTable()
		if m.startDrag(m.sim.Node(i).ID) {
			m.mouseDrag = true
		}
	case tea.MouseActionMotion:
		if !m.mouseDrag || m.grabbed == "" {
			return
		}
		w := m.viewport.ToWorld(visualization.Position{X: float64(x), Y: float64(y)})
		m.report(m.drag.OnDragMove(m.grabbed, w.X, w.Y))
	case tea.MouseActionRelease:
		if m.mouseDrag {
			m.endDrag()
		}
	}
}

func (m *Model) startDrag(id string) bool {
	if err := m.drag.OnDragStart(id); err != nil {
		m.report(err)
		return false
	}
	m.grabbed = id
	m.setMessage("grabbed "+m.siteName(id), nil)
	return true
}

func (m *Model) endDrag() {
	id := m.grabbed
	m.grabbed = ""
	m.mouseDrag = false
	if err := m.drag.OnDragEnd(id); err != nil {
		m.report(err)
		return
	}
	m.setMessage("released "+m.siteName(id), nil)
}

// nudge moves the grabbed node by one grid cell
func (m *Model) nudge(dx, dy int) {
	if m.grabbed == "" {
		return
	}
	i, ok := m.sim.Index(m.grabbed)
	if !ok {
		m.grabbed = ""
		return
	}
	s := m.viewport.ToScreen(m.sim.Node(i).Position())
	s.X += float64(dx)
	s.Y += float64(dy)
	w := m.viewport.ToWorld(s)
	m.report(m.drag.OnDragMove(m.grabbed, w.X, w.Y))
}

func (m *Model) cycle(step int) {
	n := m.sim.Graph().Len()
	if n == 0 {
		return
	}
	m.selected = ((m.selected+step)%n + n) % n
	m.updateTable()
}

// setThreshold rebuilds the graph with a new link threshold. Node positions
// and any active drag survive the rebuild.
func (m *Model) setThreshold(t float64) {
	t = math.Round(math.Max(0, math.Min(0.95, t))*100) / 100
	if t == m.threshold {
		return
	}
	m.threshold = t
	m.sim.SetGraph(visualization.Build(m.set, m.edges, t))
	if _, ok := m.sim.Index(m.grabbed); !ok {
		m.grabbed = ""
		m.mouseDrag = false
	}
	if m.selected >= m.sim.Graph().Len() {
		m.selected = 0
	}
	m.updateTable()
	m.setMessage(fmt.Sprintf("threshold %.2f: %d links", t, len(m.sim.Graph().Links)), nil)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.cw = max(width-2, 10)
	m.ch = max(height-reservedRows, 4)
	m.viewport = visualization.FitViewport(m.sim.Positions(), float64(m.cw-1), float64(m.ch-1), 1)
}

// refit rescales the view to the current layout. The view stays frozen while
// a node is held so pointer coordinates keep their meaning.
func (m *Model) refit() {
	if m.sim.State() == visualization.StateDragging {
		return
	}
	m.viewport = visualization.FitViewport(m.sim.Positions(), float64(m.cw-1), float64(m.ch-1), 1)
}

// hit returns the node drawn closest to grid cell (x, y), within one cell
func (m *Model) hit(x, y int) (int, bool) {
	best, bestD := -1, 3
	g := m.sim.Graph()
	for i := range g.Nodes {
		nx, ny := cellOf(m.viewport, g.Nodes[i].Position())
		d := (nx-x)*(nx-x) + (ny-y)*(ny-y)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

func (m *Model) selectedID() (string, bool) {
	g := m.sim.Graph()
	if m.selected < 0 || m.selected >= g.Len() {
		return "", false
	}
	return g.Nodes[m.selected].ID, true
}

func (m *Model) siteName(id string) string {
	if i, ok := m.byID[id]; ok && m.set[i].Name != "" {
		return m.set[i].Name
	}
	return id
}

func (m *Model) updateTable() {
	id, ok := m.selectedID()
	if !ok {
		m.table.SetRows(nil)
		return
	}
	top := m.matrix.Top(id, tableRows)
	rows := make([]table.Row, 0, len(top))
	for _, nb := range top {
		shared := similarity.SharedMaterials(m.set[m.byID[id]], m.set[m.byID[nb.ID]])
		rows = append(rows, table.Row{
			m.siteName(nb.ID),
			fmt.Sprintf("%.3f", nb.Score),
			strings.Join(shared, ", "),
		})
	}
	m.table.SetRows(rows)
}

func (m *Model) report(err error) {
	if err != nil {
		m.logger.Warn("drag rejected", logging.Error(err))
		m.setMessage(err.Error(), err)
	}
}

func (m *Model) setMessage(msg string, err error) {
	m.message = msg
	m.messageErr = err != nil
}

func (m Model) View() string {
	var s strings.Builder
	g := m.sim.Graph()
	s.WriteString(titleStyle.Render(fmt.Sprintf("Site Affinity  %d sites  %d links  threshold %.2f",
		g.Len(), len(g.Links), m.threshold)))
	s.WriteString("\n")
	s.WriteString(canvasStyle.Render(m.renderCanvas()))
	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString("\n")
	s.WriteString(m.table.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

func (m Model) renderCanvas() string {
	c := newCanvas(m.cw, m.ch)
	g := m.sim.Graph()

	for _, l := range g.Links {
		x0, y0 := cellOf(m.viewport, g.Nodes[l.Source].Position())
		x1, y1 := cellOf(m.viewport, g.Nodes[l.Target].Position())
		c.line(x0, y0, x1, y1)
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		x, y := cellOf(m.viewport, n.Position())
		switch {
		case n.ID == m.grabbed:
			c.set(x, y, '◆', cellGrabbed)
		case i == m.selected:
			c.set(x, y, '●', cellSelected)
		default:
			c.set(x, y, '●', cellNode)
		}
		name := []rune(m.siteName(n.ID))
		if len(name) > labelWidth {
			name = name[:labelWidth]
		}
		c.text(x+2, y, string(name))
	}
	return c.String()
}

func (m Model) renderStatus() string {
	status := fmt.Sprintf("%s  alpha %.3f  tick %d", m.sim.State(), m.sim.Alpha(), m.sim.Ticks())
	if id, ok := m.selectedID(); ok {
		status += "  selected " + m.siteName(id)
	}
	line := statusStyle.Render(status)
	if m.message != "" {
		if m.messageErr {
			line += "  " + errorStyle.Render("✗ "+m.message)
		} else {
			line += "  " + helpStyle.Render(m.message)
		}
	}
	return line
}
