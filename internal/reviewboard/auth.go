package reviewboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sevigo/build-warden/internal/core"
)

// sessionTimeout bounds a shared re-authentication attempt.
const sessionTimeout = 30 * time.Second

// reauthenticate drops the current session and establishes a new one.
// Concurrent callers share a single in-flight attempt, which is detached from
// the cancellation of whichever caller started it.
func (c *Client) reauthenticate(ctx context.Context) error {
	ch := c.auth.DoChan("session", func() (any, error) {
		authCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionTimeout)
		defer cancel()
		c.jar.reset()
		return nil, c.checkSession(authCtx)
	})

	select {
	case <-ctx.Done():
		return core.NewError(core.KindTransport, "check session", c.baseURL+"api/session/", ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("joined in-flight re-authentication")
		}
		return res.Err
	}
}

// checkSession issues an authenticated GET to the session resource.
func (c *Client) checkSession(ctx context.Context) error {
	const op = "check session"
	sessionURL := c.baseURL + "api/session/"

	resp, err := c.send(ctx, http.MethodGet, sessionURL, nil, acceptXML)
	if err != nil {
		c.logger.Error("failed to reach review board", "url", sessionURL, "error", err)
		return core.NewError(core.KindTransport, op, sessionURL, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("review board rejected credentials", "url", sessionURL, "status", resp.StatusCode, "user", c.username)
		return core.NewError(core.KindAuth, op, sessionURL, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

// EnsureAuthentication verifies the configured credentials, retrying once on
// a transport failure.
func (c *Client) EnsureAuthentication(ctx context.Context) error {
	err := c.checkSession(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrTransport) {
		return err
	}
	return c.reauthenticate(ctx)
}

// Logout ends the server-side session. Errors are logged and ignored.
func (c *Client) Logout(ctx context.Context) {
	logoutURL := c.baseURL + "api/json/accounts/logout/"
	resp, err := c.send(ctx, http.MethodPost, logoutURL, nil, "")
	if err != nil {
		c.logger.Debug("logout failed", "error", err)
		return
	}
	drain(resp)
	c.jar.reset()
}
