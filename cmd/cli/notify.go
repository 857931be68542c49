package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/wire"
)

var (
	notifyResult    string
	notifyBuildURL  string
	notifyBuildName string
	notifyEnv       []string
)

var notifyCmd = &cobra.Command{
	Use:   "notify [review]",
	Short: "Posts a build outcome to a review request",
	Long: `Posts the result of a finished build as a review. The review may be given as a URL,
a number, or any text containing the number.

Examples:
  warden-cli notify 42 --result SUCCESS --build-url https://ci.example.com/job/verify/7/
  warden-cli notify https://rb.example.com/r/42/ --result FAILURE --build-url "$BUILD_URL" --env BUILD_NUMBER=7`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		env, err := parseEnvPairs(notifyEnv)
		if err != nil {
			return err
		}
		outcome := &core.BuildOutcome{
			Review:    args[0],
			Result:    notifyResult,
			BuildURL:  notifyBuildURL,
			BuildName: notifyBuildName,
			Env:       env,
		}
		if err := outcome.Validate(); err != nil {
			return err
		}

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		// A failed post does not fail the build that reported it.
		if err := app.Notifier.Run(ctx, outcome); err != nil {
			_, _ = warnColor.Printf("Error posting to review board: %v\n", err)
			return nil
		}
		_, _ = successColor.Printf("Posted %s to %s\n", outcome.Result, outcome.Review)
		return nil
	},
}

func parseEnvPairs(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env value %q, expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}

func init() { //nolint:gochecknoinits // Cobra command registration
	notifyCmd.Flags().StringVarP(&notifyResult, "result", "r", "", "Build result: SUCCESS, UNSTABLE, FAILURE or ABORTED")
	notifyCmd.Flags().StringVar(&notifyBuildURL, "build-url", "", "URL of the finished build")
	notifyCmd.Flags().StringVar(&notifyBuildName, "build-name", "", "Display name of the build (defaults to the URL)")
	notifyCmd.Flags().StringArrayVarP(&notifyEnv, "env", "e", nil, "KEY=VALUE used to expand the custom message, repeatable")
	_ = notifyCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(notifyCmd)
}
