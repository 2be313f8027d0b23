package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/tui"
	"github.com/dd0wney/cluso-affinity/pkg/validation"
)

func (a *app) tuiCmd() *cobra.Command {
	var metricsAddr, logFile string
	cmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Interactive affinity graph with draggable sites",
		Args:  exactArgs(1, "a dataset file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the TUI; logs go to a file or nowhere.
			a.logger = logging.NewNopLogger()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				a.logger = logging.NewJSONLogger(f, logging.ParseLevel(a.cfg.Log.Level))
			}

			ws, err := a.loadWorkingSet(args[0])
			if err != nil {
				return err
			}
			sim := a.newSimulator(ws.graph)

			if addr := validation.DefaultOr(metricsAddr, a.cfg.TUI.MetricsAddr); addr != "" {
				stop := a.serveMetrics(addr)
				defer stop()
			}

			model := tui.New(sim, ws.sites, ws.edges, tui.Options{
				FrameInterval: a.cfg.TUI.FrameInterval,
				Threshold:     a.cfg.Similarity.Threshold,
				Logger:        a.logger,
			})
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file while the TUI runs")
	return cmd
}

// serveMetrics exposes the registry on addr/metrics and returns a shutdown func
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", logging.String("addr", addr), logging.Error(err))
		}
	}()
	a.logger.Info("serving metrics", logging.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
