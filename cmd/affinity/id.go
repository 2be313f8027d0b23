package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/normalize"
)

func (a *app) idCmd() *cobra.Command {
	var name, district, salt string
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Derive a site identifier from name, district and salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if salt == "" {
				salt = normalize.SaltFromTime(time.Now())
				a.logger.Debug("no salt given, using current time", logging.String("salt", salt))
			}
			fmt.Fprintln(cmd.OutOrStdout(), normalize.DeriveID(name, district, salt))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Site name")
	cmd.Flags().StringVar(&district, "district", "", "District")
	cmd.Flags().StringVar(&salt, "salt", "", "Salt, usually the record creation time (defaults to now)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
