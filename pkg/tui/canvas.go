package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-affinity/pkg/visualization"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellLink
	cellLabel
	cellNode
	cellSelected
	cellGrabbed
)

type cell struct {
	r    rune
	kind cellKind
}

// canvas is a fixed-size character grid
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

// set writes r at (x, y) unless a higher-priority cell is already there
func (c *canvas) set(x, y int, r rune, kind cellKind) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	if c.cells[i].kind > kind {
		return
	}
	c.cells[i] = cell{r: r, kind: kind}
}

// line draws a dotted segment between two cells (Bresenham)
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, '·', cellLink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) text(x, y int, s string) {
	for _, r := range s {
		c.set(x, y, r, cellLabel)
		x++
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range c.w {
			cl := c.cells[y*c.w+x]
			b.WriteString(styleFor(cl.kind).Render(string(cl.r)))
		}
	}
	return b.String()
}

func styleFor(kind cellKind) lipgloss.Style {
	switch kind {
	case cellLink:
		return linkStyle
	case cellLabel:
		return labelStyle
	case cellNode:
		return nodeStyle
	case cellSelected:
		return selectedStyle
	case cellGrabbed:
		return grabbedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// cellOf rounds a viewport position to a grid cell
func cellOf(v visualization.Viewport, p visualization.Position) (int, int) {
	s := v.ToScreen(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
