package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

func (a *app) matrixCmd() *cobra.Command {
	var (
		all bool
		top int
	)
	cmd := &cobra.Command{
		Use:   "matrix FILE",
		Short: "Score every pair of sites in a dataset",
		Args:  exactArgs(1, "a dataset file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkingSet(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			byID := sites.Index(ws.sites)
			threshold := a.cfg.Similarity.Threshold

			edges := make([]similarity.Edge, 0, len(ws.edges))
			for _, e := range ws.edges {
				if all || e.Score > 0 {
					edges = append(edges, e)
				}
			}
			sort.SliceStable(edges, func(i, j int) bool {
				return edges[i].Score > edges[j].Score
			})
			if top > 0 && len(edges) > top {
				edges = edges[:top]
			}

			fmt.Fprintf(w, "\n  %s  %d sites, %d pairs, %s metric, threshold %.2f\n\n",
				brand.Sprint("Site affinity"), len(ws.sites), len(ws.edges), a.cfg.Similarity.Metric, threshold)

			if len(edges) == 0 {
				fmt.Fprintln(w, "    No site pairs share a material")
				return nil
			}

			rows := make([][]string, 0, len(edges))
			for i := range edges {
				e := &edges[i]
				sa, sb := ws.sites[byID[e.A]], ws.sites[byID[e.B]]
				rows = append(rows, []string{
					sa.Name,
					sb.Name,
					strconv.FormatFloat(e.Score, 'f', 3, 64),
					e.Explain(sa, sb),
				})
			}
			printTable(w, []string{"Site", "Site", "Score", "Why"}, rows, func(r, col int, cell string) string {
				if col != 2 {
					return cell
				}
				return scoreColor(edges[r].Score, threshold).Sprint(cell)
			})

			fmt.Fprintf(w, "\n  %s %d links above threshold\n", statusIcon(len(ws.graph.Links) > 0), len(ws.graph.Links))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include pairs with no shared material")
	cmd.Flags().IntVar(&top, "top", 0, "Show only the N strongest pairs")
	return cmd
}
