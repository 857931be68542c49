package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
)

// Headlines of the outcome comment.
const (
	MsgBuildSuccess  = "Build Successful"
	MsgBuildUnstable = "Build Unstable"
	MsgBuildFailure  = "Build Failed"
)

// NotifyJob posts the result of a finished build as a review on the review
// request the build was started for.
type NotifyJob struct {
	source core.ReviewSource
	cfg    config.NotifyConfig
	logger *slog.Logger
}

// NewNotifyJob creates the job run by the dispatcher workers and by the CLI.
func NewNotifyJob(source core.ReviewSource, cfg config.NotifyConfig, logger *slog.Logger) *NotifyJob {
	if source == nil {
		panic("review source cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &NotifyJob{source: source, cfg: cfg, logger: logger}
}

// Run validates the outcome, resolves the review and posts the comment.
func (j *NotifyJob) Run(ctx context.Context, outcome *core.BuildOutcome) error {
	if outcome == nil {
		return fmt.Errorf("build outcome is nil")
	}
	if err := outcome.Validate(); err != nil {
		return fmt.Errorf("invalid build outcome: %w", err)
	}

	ref, err := core.LegacyStringRef(outcome.Review).Resolve(j.source.BaseURL())
	if err != nil {
		return fmt.Errorf("failed to resolve review reference: %w", err)
	}

	comment := core.ReviewComment{
		Body:     BuildMessage(outcome, j.cfg),
		ShipIt:   j.cfg.ShipItOnSuccess && outcome.Result == core.ResultSuccess,
		Markdown: j.cfg.UseMarkdown,
	}

	j.logger.Info("posting build outcome", "review_url", ref.URL, "result", outcome.Result, "ship_it", comment.ShipIt)
	if err := j.source.PostComment(ctx, ref, comment); err != nil {
		return fmt.Errorf("failed to post build outcome to %s: %w", ref.URL, err)
	}
	return nil
}

// BuildMessage renders the comment body for a build outcome.
func BuildMessage(outcome *core.BuildOutcome, cfg config.NotifyConfig) string {
	link := outcome.BuildURL
	if cfg.UseMarkdown {
		link = "[" + outcome.BuildName + "](" + strings.TrimSpace(outcome.BuildURL) + ")."
	}

	var headline string
	switch outcome.Result {
	case core.ResultSuccess:
		headline = MsgBuildSuccess
	case core.ResultUnstable:
		headline = MsgBuildUnstable
	default:
		headline = MsgBuildFailure
	}

	msg := headline + " " + link
	if cfg.CustomMessage != "" {
		msg += "\n" + expandEnv(cfg.CustomMessage, outcome.Env)
	}
	return msg
}

var envVarRegex = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)

// expandEnv replaces $VAR and ${VAR} with values from env. Unknown variables
// are left untouched.
func expandEnv(s string, env map[string]string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.Trim(match, "${}")
		if v, ok := env[name]; ok {
			return v
		}
		return match
	})
}
