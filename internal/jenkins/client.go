// Package jenkins triggers parameterized builds on a Jenkins server.
package jenkins

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
)

// ReviewURLParam is the build parameter carrying the canonical review URL.
const ReviewURLParam = "review.url"

// Client triggers builds through the buildWithParameters endpoint.
type Client struct {
	baseURL  string
	username string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

var _ core.BuildTrigger = (*Client)(nil)

// NewClient creates a build trigger for the configured Jenkins server.
func NewClient(cfg config.JenkinsConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := cfg.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		baseURL:  base,
		username: cfg.Username,
		token:    cfg.APIToken,
		http: &http.Client{
			Timeout: timeout,
			// The queue location is reported through a redirect; it is not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With("component", "jenkins"),
	}
}

// Trigger enqueues job with the review URL as its only parameter. A missing
// job is reported as core.ErrNotFound.
func (c *Client) Trigger(ctx context.Context, job string, ref core.ReviewRef) error {
	const op = "trigger build"
	if job == "" {
		return core.NewError(core.KindNotFound, op, c.baseURL, fmt.Errorf("no job configured"))
	}

	params := url.Values{}
	params.Set(ReviewURLParam, ref.URL)
	triggerURL := c.baseURL + JobPath(job) + "buildWithParameters?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, nil)
	if err != nil {
		return core.NewError(core.KindTransport, op, triggerURL, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("failed to reach build server", "job", job, "review_url", ref.URL, "error", err)
		return core.NewError(core.KindTransport, op, triggerURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Error("build job not found", "job", job, "review_url", ref.URL)
		return core.NewError(core.KindNotFound, op, triggerURL, fmt.Errorf("job %q does not exist", job))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.Error("build server rejected credentials", "job", job, "status", resp.StatusCode)
		return core.NewError(core.KindAuth, op, triggerURL, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		c.logger.Info("build queued", "job", job, "review_url", ref.URL, "queue", resp.Header.Get("Location"))
		return nil
	default:
		c.logger.Error("unexpected response from build server", "job", job, "status", resp.StatusCode)
		return core.NewError(core.KindTransport, op, triggerURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// JobExists looks the job up through its JSON API. A missing job is
// reported as core.ErrNotFound.
func (c *Client) JobExists(ctx context.Context, job string) error {
	const op = "look up job"
	if job == "" {
		return core.NewError(core.KindNotFound, op, c.baseURL, fmt.Errorf("no job configured"))
	}

	jobURL := c.baseURL + JobPath(job) + "api/json?tree=name"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
	if err != nil {
		return core.NewError(core.KindTransport, op, jobURL, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.NewError(core.KindTransport, op, jobURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Error("build job not found", "job", job)
		return core.NewError(core.KindNotFound, op, jobURL, fmt.Errorf("job %q does not exist", job))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.NewError(core.KindAuth, op, jobURL, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return core.NewError(core.KindTransport, op, jobURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// JobPath maps a job name to its URL path. Folder jobs such as "team/verify"
// become "job/team/job/verify/".
func JobPath(job string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.Trim(job, "/"), "/") {
		if part == "" {
			continue
		}
		b.WriteString("job/")
		b.WriteString(url.PathEscape(part))
		b.WriteString("/")
	}
	return b.String()
}
