package core

import (
	"fmt"
	"strings"
)

// Build results reported by the build server.
const (
	ResultSuccess  = "SUCCESS"
	ResultUnstable = "UNSTABLE"
	ResultFailure  = "FAILURE"
	ResultAborted  = "ABORTED"
)

// BuildOutcome is the internal view of a finished build that was triggered for
// a review. It is queued by the HTTP API or the CLI and consumed by the notify job.
type BuildOutcome struct {
	// Review is the review.url parameter the build was started with.
	Review    string `json:"review"`
	Result    string `json:"result"`
	BuildURL  string `json:"build_url"`
	BuildName string `json:"build_name"`
	// Env is used to expand $VARIABLES in the custom notification message.
	Env map[string]string `json:"env,omitempty"`
}

// Validate normalizes the result and checks that the outcome can be reported.
func (o *BuildOutcome) Validate() error {
	if strings.TrimSpace(o.Review) == "" {
		return fmt.Errorf("review reference is missing from the build outcome")
	}
	o.Result = strings.ToUpper(strings.TrimSpace(o.Result))
	switch o.Result {
	case ResultSuccess, ResultUnstable, ResultFailure, ResultAborted:
	case "":
		return fmt.Errorf("build result is missing from the build outcome")
	default:
		return fmt.Errorf("unsupported build result: %s", o.Result)
	}
	if o.BuildName == "" {
		o.BuildName = o.BuildURL
	}
	return nil
}
