// Package reviewboard provides a client for the Review Board web API.
package reviewboard

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
)

const (
	acceptXML   = "application/xml"
	acceptPatch = "text/x-patch"
	pageSize    = 200
)

// Client talks to one Review Board server with one set of credentials. It is
// safe for concurrent use; all pollers share a single instance.
type Client struct {
	baseURL  string
	username string
	password string
	host     string
	port     int

	http    *http.Client
	jar     *sessionJar
	limiter *rate.Limiter
	auth    singleflight.Group
	logger  *slog.Logger
}

var _ core.ReviewSource = (*Client)(nil)

// NewClient creates a client for the configured server. Credentials are sent
// preemptively with every request to the same host and port.
func NewClient(cfg config.ReviewBoardConfig, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("review board URL is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.URL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	host, port := ExtractHostAndPort(baseURL)
	return &Client{
		baseURL:  baseURL,
		username: cfg.Username,
		password: cfg.Password,
		host:     host,
		port:     port,
		http:     &http.Client{Timeout: timeout, Jar: jar},
		jar:      jar,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With("component", "reviewboard"),
	}, nil
}

// BaseURL returns the server root, always ending with a slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Username returns the account the client authenticates as.
func (c *Client) Username() string { return c.username }

// do sends a request and, if it fails in transport or is rejected as
// unauthorized, re-establishes the session once and retries.
func (c *Client) do(ctx context.Context, op, method, rawURL string, form url.Values, accept string) (*http.Response, error) {
	resp, err := c.send(ctx, method, rawURL, form, accept)
	if err == nil && resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, core.NewError(core.KindTransport, op, rawURL, ctx.Err())
	}
	if resp != nil {
		drain(resp)
	}

	c.logger.Warn("request failed, re-authenticating and retrying once", "op", op, "url", rawURL, "error", err)
	if authErr := c.reauthenticate(ctx); authErr != nil {
		return nil, authErr
	}

	resp, err = c.send(ctx, method, rawURL, form, accept)
	if err != nil {
		c.logger.Error("request failed after retry", "op", op, "url", rawURL, "error", err)
		return nil, core.NewError(core.KindTransport, op, rawURL, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return nil, core.NewError(core.KindAuth, op, rawURL, errors.New("credentials rejected"))
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, rawURL string, form url.Values, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.sameServer(rawURL) {
		req.SetBasicAuth(c.username, c.password)
	}
	return c.http.Do(req)
}

// getXML fetches rawURL and decodes the rsp document.
func (c *Client) getXML(ctx context.Context, op, rawURL string) (*rsp, error) {
	resp, err := c.do(ctx, op, http.MethodGet, rawURL, nil, acceptXML)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := checkStatus(op, rawURL, resp); err != nil {
		c.logger.Error("review board request failed", "op", op, "url", rawURL, "status", resp.StatusCode)
		return nil, err
	}

	var doc rsp
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		c.logger.Error("failed to parse review board response", "op", op, "url", rawURL, "error", err)
		return nil, core.NewError(core.KindParse, op, rawURL, err)
	}
	if doc.Stat == "fail" && doc.Err != nil {
		return nil, core.NewError(core.KindTransport, op, rawURL,
			fmt.Errorf("api error %d: %s", doc.Err.Code, doc.Err.Msg))
	}
	return &doc, nil
}

// listItems follows links.next until the last page and collects items.
func (c *Client) listItems(ctx context.Context, op, firstURL string, pick func(*rsp) []item) ([]item, error) {
	var all []item
	next := firstURL
	for page := 0; next != ""; page++ {
		if page > 1000 {
			return nil, core.NewError(core.KindParse, op, firstURL, errors.New("pagination does not terminate"))
		}
		doc, err := c.getXML(ctx, op, next)
		if err != nil {
			return nil, err
		}
		all = append(all, pick(doc)...)
		next = doc.Links.Next.href()
	}
	return all, nil
}

func checkStatus(op, rawURL string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.NewError(core.KindAuth, op, rawURL, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return core.NewError(core.KindNotFound, op, rawURL, fmt.Errorf("status %d", resp.StatusCode))
	default:
		return core.NewError(core.KindTransport, op, rawURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// sessionJar is a cookie jar that can be reset when the server drops the session.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &sessionJar{jar: jar}, nil
}

func (s *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.jar.SetCookies(u, cookies)
}

func (s *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jar.Cookies(u)
}

func (s *sessionJar) reset() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.jar = jar
	s.mu.Unlock()
}
