package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
	"github.com/dd0wney/cluso-affinity/pkg/visualization"
)

type layoutNode struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Verified   bool           `json:"verified"`
	Chronology []sites.Period `json:"chronology"`
}

type layoutLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type layoutResult struct {
	State string       `json:"state"`
	Ticks int          `json:"ticks"`
	Alpha float64      `json:"alpha"`
	Nodes []layoutNode `json:"nodes"`
	Links []layoutLink `json:"links"`
}

type layoutFrame struct {
	Generation uint64                            `json:"generation"`
	Tick       int                               `json:"tick"`
	Alpha      float64                           `json:"alpha"`
	State      string                            `json:"state"`
	Positions  map[string]visualization.Position `json:"positions"`
}

func (a *app) layoutCmd() *cobra.Command {
	var (
		maxTicks int
		padding  float64
		stream   bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Run the force layout headless and print node positions as JSON",
		Args:  exactArgs(1, "a dataset file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkingSet(args[0])
			if err != nil {
				return err
			}
			sim := a.newSimulator(ws.graph)

			if stream {
				return a.streamLayout(cmd.Context(), cmd.OutOrStdout(), sim, maxTicks, interval)
			}

			timer := logging.StartTimer(a.logger, "layout finished")
			for sim.Tick() {
				if maxTicks > 0 && sim.Ticks() >= maxTicks {
					break
				}
			}
			timer.End(logging.Int("ticks", sim.Ticks()), logging.Alpha(sim.Alpha()))

			positions := sim.Positions()
			if padding > 0 {
				positions = sim.NormalizedPositions(padding)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(buildLayoutResult(sim, positions))
		},
	}
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "Stop after N ticks even if not converged (0 runs to convergence)")
	cmd.Flags().Float64Var(&padding, "padding", 0, "Scale positions into the canvas keeping this margin (0 keeps raw coordinates)")
	cmd.Flags().BoolVar(&stream, "stream", false, "Emit one JSON snapshot per frame while the layout runs")
	cmd.Flags().DurationVar(&interval, "interval", visualization.DefaultFrameInterval, "Frame interval when streaming")
	return cmd
}

func buildLayoutResult(sim *visualization.Simulator, positions map[string]visualization.Position) layoutResult {
	g := sim.Graph()
	res := layoutResult{
		State: sim.State().String(),
		Ticks: sim.Ticks(),
		Alpha: sim.Alpha(),
		Nodes: make([]layoutNode, 0, g.Len()),
		Links: make([]layoutLink, 0, len(g.Links)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		p := positions[n.ID]
		res.Nodes = append(res.Nodes, layoutNode{
			ID:         n.ID,
			Name:       n.Site.Name,
			X:          p.X,
			Y:          p.Y,
			Verified:   n.Site.Location.Verified,
			Chronology: n.Site.Chronology,
		})
	}
	for _, l := range g.Links {
		res.Links = append(res.Links, layoutLink{
			Source: g.Nodes[l.Source].ID,
			Target: g.Nodes[l.Target].ID,
			Weight: l.Weight,
		})
	}
	return res
}

// streamLayout drives the simulator through a Loop and writes snapshots as
// JSON lines until it converges, maxTicks is reached or ctx ends.
func (a *app) streamLayout(ctx context.Context, w io.Writer, sim *visualization.Simulator, maxTicks int, interval time.Duration) error {
	loop := visualization.NewLoop(sim, interval, a.logger)
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	enc := json.NewEncoder(w)
	var writeErr error
	for writeErr == nil {
		var snap visualization.Snapshot
		select {
		case snap = <-loop.Snapshots():
		case err := <-errCh:
			return ignoreCanceled(err)
		}
		writeErr = enc.Encode(layoutFrame{
			Generation: snap.Generation,
			Tick:       snap.Tick,
			Alpha:      snap.Alpha,
			State:      snap.State.String(),
			Positions:  snap.Positions,
		})
		if snap.State == visualization.StateConverged || (maxTicks > 0 && snap.Tick >= maxTicks) {
			break
		}
	}

	loop.Close()
	if err := ignoreCanceled(<-errCh); err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("write snapshot: %w", writeErr)
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
