package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/normalize"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify LABEL...",
		Short: "Map free-text chronology labels to canonical periods",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			rows := make([][]string, 0, len(args))
			for _, label := range args {
				rows = append(rows, []string{label, string(normalize.ClassifyLabel(label))})
			}
			printTable(w, []string{"Label", "Period"}, rows, func(_, col int, cell string) string {
				if col == 1 && cell == string(sites.PeriodUnknown) {
					return warn.Sprint(cell)
				}
				return cell
			})

			combined := normalize.ClassifyLabels(args)
			names := make([]string, len(combined))
			for i, p := range combined {
				names[i] = string(p)
			}
			fmt.Fprintf(w, "\n  %s %s\n", info.Sprint("chronology:"), strings.Join(names, ", "))
			return nil
		},
	}
}
