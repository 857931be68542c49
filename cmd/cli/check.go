package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/jenkins"
	"github.com/sevigo/build-warden/internal/wire"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verifies the review server credentials and prints the pollers",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		_, _ = titleColor.Printf("Review Board %s\n", app.ReviewBoard.BaseURL())
		if err := app.ReviewBoard.EnsureAuthentication(ctx); err != nil {
			_, _ = errorColor.Printf("  login as %s failed: %v\n", app.ReviewBoard.Username(), err)
			return fmt.Errorf("review board check failed: %w", err)
		}
		_, _ = successColor.Printf("  logged in as %s\n", app.ReviewBoard.Username())
		app.ReviewBoard.Logout(ctx)

		pollers := app.Pollers.Pollers()
		_, _ = titleColor.Printf("Pollers (%d)\n", len(pollers))
		if len(pollers) == 0 {
			_, _ = warnColor.Println("  none configured")
		}
		for _, p := range pollers {
			cfg := p.Config()
			fmt.Printf("  %s -> %s%s\n", cfg.Name, app.Cfg.Jenkins.URL, jenkins.JobPath(cfg.TargetJob))
			_, _ = dimColor.Printf("    lookback %sh, repository %d, restrict to user %t, advisory %t\n",
				cfg.LookbackHours, cfg.RepositoryID, cfg.RestrictToUser, !cfg.DisableAdvisoryComment)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(checkCmd)
}
