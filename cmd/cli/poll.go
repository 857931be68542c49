package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/wire"
)

var pollerName string

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run one poll cycle now",
	Long: `Runs a single poll cycle for one poller, or for every configured poller in turn.
New review diffs are dispatched to the build server and recorded exactly as the daemon would.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		pollers, err := selectPollers(app.Pollers, pollerName)
		if err != nil {
			return err
		}

		var failed int
		for _, p := range pollers {
			report, err := p.RunOnce(ctx)
			printReport(p.Name(), report, err)
			if err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d poll cycles failed", failed, len(pollers))
		}
		return nil
	},
}

func selectPollers(m *poller.Manager, name string) ([]*poller.Poller, error) {
	if name != "" {
		p, ok := m.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown poller: %s", name)
		}
		return []*poller.Poller{p}, nil
	}
	all := m.Pollers()
	if len(all) == 0 {
		return nil, errors.New("no pollers configured")
	}
	return all, nil
}

func printReport(name string, report *core.CycleReport, err error) {
	_, _ = titleColor.Printf("Poller %s\n", name)
	if report != nil {
		_, _ = dimColor.Printf("  cycle %s\n", report.CycleID)
		fmt.Printf("  reviews seen: %d, dispatched: %d\n", report.ReviewsSeen, report.ReviewsDispatched)
		for _, item := range report.Items {
			line := fmt.Sprintf("  r/%d %s", item.ReviewID, item.Status)
			if item.Reason != "" {
				line += " (" + item.Reason + ")"
			}
			switch item.Status {
			case core.ItemDispatched:
				_, _ = successColor.Println(line)
			case core.ItemFailed:
				_, _ = errorColor.Println(line)
			default:
				_, _ = dimColor.Println(line)
			}
		}
		for _, msg := range report.ErrorMessages() {
			_, _ = warnColor.Printf("  error: %s\n", msg)
		}
	}
	if err != nil {
		_, _ = errorColor.Printf("  cycle failed: %v\n", err)
	}
}

func init() { //nolint:gochecknoinits // Cobra command registration
	pollCmd.Flags().StringVarP(&pollerName, "poller", "p", "", "Only run the named poller")
	rootCmd.AddCommand(pollCmd)
}
