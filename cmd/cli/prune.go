package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/wire"
)

var olderThan time.Duration

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes dispatch records that were not seen for a while",
	Long: `Deletes the dispatch records of a poller whose review has not been observed since
the cutoff. A pruned review is dispatched again if it shows up once more.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		pollers, err := selectPollers(app.Pollers, pollerName)
		if err != nil {
			return err
		}

		cutoff := time.Now().Add(-olderThan)
		for _, p := range pollers {
			n, err := app.Store.Prune(ctx, p.Name(), cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune %s: %w", p.Name(), err)
			}
			fmt.Printf("%s: removed %d records not seen since %s\n", p.Name(), n, cutoff.Format(time.RFC3339))
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Remove records not refreshed within this duration")
	pruneCmd.Flags().StringVarP(&pollerName, "poller", "p", "", "Only prune the named poller")
	rootCmd.AddCommand(pruneCmd)
}
