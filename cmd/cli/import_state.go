package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/storage"
	"github.com/sevigo/build-warden/internal/wire"
)

var importStateCmd = &cobra.Command{
	Use:   "import-state [file]",
	Short: "Imports a legacy processed-reviews file into the dispatch store",
	Long: `Imports the processed-reviews set written by the previous bot. Entries with a date
keep it as their version; entries without one are dispatched once more on the next cycle.
Existing newer records are never lowered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if pollerName == "" {
			return fmt.Errorf("--poller is required")
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		records, err := storage.ParseLegacyState(f, pollerName, app.ReviewBoard.BaseURL(), app.Logger)
		if err != nil {
			return err
		}
		n, err := app.Store.ImportRecords(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to import records: %w", err)
		}
		_, _ = successColor.Printf("Imported %d of %d records into poller %s\n", n, len(records), pollerName)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	importStateCmd.Flags().StringVarP(&pollerName, "poller", "p", "", "Poller the records belong to")
	rootCmd.AddCommand(importStateCmd)
}
