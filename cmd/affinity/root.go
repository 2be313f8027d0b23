package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/config"
	"github.com/dd0wney/cluso-affinity/pkg/dataset"
	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/metrics"
	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
	"github.com/dd0wney/cluso-affinity/pkg/visualization"
)

var version = "0.3.0"

// app carries state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "affinity",
		Short:        "affinity: site similarity and force-directed layout",
		Long:         brand.Sprint("affinity") + ": relate archaeological sites by the materials they share\n" + subtle.Sprint("Score site pairs, build the affinity graph and lay it out"),
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.load(cmd)
	}
	root.SetVersionTemplate("affinity {{ .Version }}\n")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(
		a.matrixCmd(),
		a.layoutCmd(),
		a.classifyCmd(),
		a.idCmd(),
		a.tuiCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(level))
	a.metrics = metrics.NewRegistry()
	return nil
}

// workingSet is a loaded dataset with its edges and graph
type workingSet struct {
	sites []sites.Site
	edges []similarity.Edge
	graph *visualization.Graph
}

func (a *app) loadWorkingSet(path string) (*workingSet, error) {
	set, err := dataset.LoadFile(path, dataset.Options{Logger: a.logger})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	edges := similarity.ComputeEdges(set, a.cfg.SimilarityOptions())
	a.metrics.RecordSimilarity(len(edges), time.Since(start))

	g := visualization.Build(set, edges, a.cfg.Similarity.Threshold)
	a.recordDrops(g.Dropped)
	a.logger.Info("working set loaded",
		logging.Path(path),
		logging.Count(len(set)),
		logging.Int("links", len(g.Links)),
		logging.Float64("threshold", a.cfg.Similarity.Threshold))

	if g.Dropped.Dangling > 0 || g.Dropped.DuplicateNode > 0 {
		a.logger.Warn("graph dropped inconsistent entries",
			logging.Int("dangling", g.Dropped.Dangling),
			logging.Int("duplicate_nodes", g.Dropped.DuplicateNode))
	}
	return &workingSet{sites: set, edges: edges, graph: g}, nil
}

func (a *app) recordDrops(d visualization.DropCounts) {
	a.metrics.RecordDroppedLinks("below_threshold", d.BelowThreshold)
	a.metrics.RecordDroppedLinks("dangling", d.Dangling)
	a.metrics.RecordDroppedLinks("self_loop", d.SelfLoop)
	a.metrics.RecordDroppedLinks("duplicate", d.Duplicate)
}

func (a *app) newSimulator(g *visualization.Graph) *visualization.Simulator {
	return visualization.NewSimulator(g, a.cfg.Simulation,
		visualization.WithLogger(a.logger),
		visualization.WithMetrics(a.metrics))
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("expected %s", what)
		}
		return nil
	}
}
