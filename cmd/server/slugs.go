package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "Maintain movie URL slugs",
}

var slugsBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Give every movie without a slug one derived from its title",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore(st)

		updated, failed := catalog.NewRepository(st, slog.Default()).BackfillSlugs(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "updated %d, failed %d\n", updated, failed)
		if failed > 0 {
			return fmt.Errorf("%d movies could not be updated", failed)
		}
		return nil
	},
}

func init() {
	slugsCmd.AddCommand(slugsBackfillCmd)
	rootCmd.AddCommand(slugsCmd)
}
