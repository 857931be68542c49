package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sevigo/build-warden/internal/gitutil"
	"github.com/sevigo/build-warden/internal/wire"
)

var (
	patchWorkspace string
	patchNoApply   bool
	patchProps     bool
)

var patchCmd = &cobra.Command{
	Use:   "patch [review]",
	Short: "Downloads the latest diff of a review and applies it to a work tree",
	Long: `Downloads the latest diff revision of a review request into <workspace>/patch.diff,
prints the files it touches and applies it with git unless auto-apply is disabled.
With --props the review properties are printed as KEY=VALUE lines first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		ref, err := app.ResolveReview(args[0])
		if err != nil {
			return err
		}

		if patchProps {
			props, err := app.ReviewBoard.Properties(ctx, ref)
			if err != nil {
				return fmt.Errorf("failed to read review properties: %w", err)
			}
			fmt.Printf("REVIEW_BRANCH=%s\nREVIEW_REPOSITORY=%s\nREVIEW_USER=%s\n", props.Branch, props.Repository, props.User)
		}

		body, err := app.ReviewBoard.Diff(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to download diff: %w", err)
		}
		data, err := io.ReadAll(body)
		_ = body.Close()
		if err != nil {
			return fmt.Errorf("failed to download diff: %w", err)
		}

		workspace := patchWorkspace
		if workspace == "" {
			workspace = app.Cfg.Patch.Workspace
		}
		path, err := app.Git.WritePatch(workspace, bytes.NewReader(data))
		if err != nil {
			return err
		}

		summary, err := gitutil.Summarize(data)
		if err != nil {
			return err
		}
		_, _ = titleColor.Printf("%s -> %s\n", ref.URL, path)
		for _, f := range summary.Files {
			fmt.Printf("  %s ", f.Name)
			_, _ = successColor.Printf("+%d ", f.Added)
			_, _ = errorColor.Printf("-%d\n", f.Deleted)
		}
		_, _ = dimColor.Printf("  %d files, +%d -%d\n", len(summary.Files), summary.Added(), summary.Deleted())

		if patchNoApply || app.Cfg.Patch.DisableAutoApply {
			_, _ = warnColor.Println("Skipping automatic patch application")
			return nil
		}
		if err := app.Git.Apply(ctx, workspace, path, summary.Strip); err != nil {
			_, _ = errorColor.Println("Failed to apply patch")
			return err
		}
		_, _ = successColor.Println("Patch applied")
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	patchCmd.Flags().StringVarP(&patchWorkspace, "workspace", "w", "", "Git work tree to apply the diff to (default PATCH_WORKSPACE)")
	patchCmd.Flags().BoolVar(&patchNoApply, "no-apply", false, "Only download and summarize the diff")
	patchCmd.Flags().BoolVar(&patchProps, "props", false, "Print the review properties as KEY=VALUE lines")
	rootCmd.AddCommand(patchCmd)
}
