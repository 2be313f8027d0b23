package visualization

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
)

// ErrLoopClosed is returned by requests made after the loop stopped
var ErrLoopClosed = errors.New("simulation loop closed")

// DefaultFrameInterval is roughly one display refresh at 60Hz
const DefaultFrameInterval = 16 * time.Millisecond

// Snapshot is the state published after every tick or event
type Snapshot struct {
	Generation uint64
	Tick       int
	Alpha      float64
	State      State
	Positions  map[string]Position
}

// Loop owns a Simulator and drives it from a single goroutine. Frame signals
// and requests (drags, graph replacement) are handled in one select, so a
// request is always applied between two ticks, never during one.
// The frame ticker only exists while the simulator is active.
type Loop struct {
	sim      *Simulator
	drag     *Dragger
	interval time.Duration
	logger   logging.Logger

	requests  chan request
	snapshots chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

type request struct {
	fn    func(*Simulator, *Dragger) error
	reply chan error
}

// NewLoop creates a loop for sim; interval <= 0 uses DefaultFrameInterval
func NewLoop(sim *Simulator, interval time.Duration, logger logging.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	logger = logging.OrNop(logger)
	return &Loop{
		sim:       sim,
		drag:      NewDragger(sim, logger),
		interval:  interval,
		logger:    logger.With(logging.Component("loop")),
		requests:  make(chan request),
		snapshots: make(chan Snapshot, 1),
		done:      make(chan struct{}),
	}
}

// Run processes frames and requests until ctx is cancelled or Close is
// called. The simulator is disposed on return.
func (l *Loop) Run(ctx context.Context) error {
	var ticker *time.Ticker
	var frames <-chan time.Time

	arm := func() {
		if ticker == nil && l.sim.Active() {
			ticker = time.NewTicker(l.interval)
			frames = ticker.C
		}
	}
	disarm := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, frames = nil, nil
		}
	}
	defer func() {
		disarm()
		l.sim.Dispose()
		l.Close()
	}()

	l.publish()
	arm()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-l.done:
			return nil

		case req := <-l.requests:
			req.reply <- req.fn(l.sim, l.drag)
			l.publish()
			if l.sim.Active() {
				arm()
			} else {
				disarm()
			}

		case <-frames:
			if !l.sim.Tick() {
				disarm()
				l.logger.Debug("loop idle", logging.Int("ticks", l.sim.Ticks()))
			}
			l.publish()
		}
	}
}

// publish offers the latest snapshot, replacing one the consumer has not read
func (l *Loop) publish() {
	snap := Snapshot{
		Generation: l.sim.Generation(),
		Tick:       l.sim.Ticks(),
		Alpha:      l.sim.Alpha(),
		State:      l.sim.State(),
		Positions:  l.sim.Positions(),
	}
	select {
	case l.snapshots <- snap:
		return
	default:
	}
	select {
	case <-l.snapshots:
	default:
	}
	select {
	case l.snapshots <- snap:
	default:
	}
}

// Snapshots delivers the most recent state; intermediate frames may be skipped
func (l *Loop) Snapshots() <-chan Snapshot {
	return l.snapshots
}

// Do runs fn on the loop goroutine between ticks and returns its error
func (l *Loop) Do(ctx context.Context, fn func(*Simulator, *Dragger) error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DragStart forwards to Dragger.OnDragStart on the loop goroutine
func (l *Loop) DragStart(ctx context.Context, id string) error {
	return l.Do(ctx, func(_ *Simulator, d *Dragger) error { return d.OnDragStart(id) })
}

// DragMove forwards to Dragger.OnDragMove on the loop goroutine
func (l *Loop) DragMove(ctx context.Context, id string, x, y float64) error {
	return l.Do(ctx, func(_ *Simulator, d *Dragger) error { return d.OnDragMove(id, x, y) })
}

// DragEnd forwards to Dragger.OnDragEnd on the loop goroutine
func (l *Loop) DragEnd(ctx context.Context, id string) error {
	return l.Do(ctx, func(_ *Simulator, d *Dragger) error { return d.OnDragEnd(id) })
}

// Replace installs a new graph on the loop goroutine
func (l *Loop) Replace(ctx context.Context, g *Graph) error {
	return l.Do(ctx, func(s *Simulator, _ *Dragger) error {
		s.SetGraph(g)
		return nil
	})
}

// Close stops the loop. It is safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
