package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/wire"
)

var outputJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the dispatch records of every poller",
	RunE: func(_ *cobra.Command, _ []string) error {
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

		var records []core.DispatchRecord
		for _, p := range pollers {
			list, err := app.Store.ListDispatches(ctx, p.Name())
			if err != nil {
				return fmt.Errorf("failed to retrieve dispatches of %s: %w", p.Name(), err)
			}
			records = append(records, list...)
		}

		if outputJSON {
			if records == nil {
				records = []core.DispatchRecord{}
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(records)
		}

		if len(records) == 0 {
			slog.Info("No reviews have been dispatched yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "POLLER\tREVIEW\tDIFF VERSION\tORIGIN\tLAST SEEN")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.Poller,
				core.ReviewURL(app.ReviewBoard.BaseURL(), r.ReviewID),
				r.LastUpdated.Format(time.RFC3339),
				r.Origin,
				r.UpdatedAt.Local().Format(time.RFC822),
			)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output status as JSON")
	statusCmd.Flags().StringVarP(&pollerName, "poller", "p", "", "Only show the named poller")
	rootCmd.AddCommand(statusCmd)
}
