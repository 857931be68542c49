package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/reviewboard"
	"github.com/sevigo/build-warden/internal/wire"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists the repositories known to the review server",
	Long:  `Lists repository names and ids. The id is what repository_id expects in the pollers file.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		repos, err := app.ReviewBoard.Repositories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list repositories: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tREPOSITORY")
		for _, name := range reviewboard.SortedNames(repos) {
			fmt.Fprintf(w, "%d\t%s\n", repos[name], name)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(reposCmd)
}
