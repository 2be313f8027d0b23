package visualization

import (
	"fmt"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
)

// Dragger translates pointer drag events into pins on a Simulator.
// Its methods follow the same single-goroutine rule as the Simulator.
type Dragger struct {
	sim    *Simulator
	logger logging.Logger
}

// NewDragger creates a drag controller for sim
func NewDragger(sim *Simulator, logger logging.Logger) *Dragger {
	return &Dragger{
		sim:    sim,
		logger: logging.OrNop(logger).With(logging.Component("drag")),
	}
}

func (d *Dragger) resolve(id string) (int, error) {
	i, ok := d.sim.Index(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return i, nil
}

// OnDragStart pins the node where it currently is and reheats the simulation.
func (d *Dragger) OnDragStart(id string) error {
	i, err := d.resolve(id)
	if err != nil {
		return err
	}
	n := d.sim.Node(i)
	d.sim.reheat("drag")
	d.sim.Pin(i, n.X, n.Y)
	d.logger.Debug("drag started", logging.SiteID(id), logging.Alpha(d.sim.Alpha()))
	return nil
}

// OnDragMove moves the pin. The node reports exactly (x, y) from now on.
func (d *Dragger) OnDragMove(id string, x, y float64) error {
	i, err := d.resolve(id)
	if err != nil {
		return err
	}
	if !d.sim.Node(i).Pinned {
		return fmt.Errorf("%w: %q", ErrNotDragging, id)
	}
	d.sim.Pin(i, x, y)
	return nil
}

// OnDragEnd releases the pin; the simulation keeps running until it cools.
func (d *Dragger) OnDragEnd(id string) error {
	i, err := d.resolve(id)
	if err != nil {
		return err
	}
	if !d.sim.Node(i).Pinned {
		return fmt.Errorf("%w: %q", ErrNotDragging, id)
	}
	d.sim.Unpin(i)
	d.logger.Debug("drag ended", logging.SiteID(id))
	return nil
}
