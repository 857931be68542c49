// Package app initializes and orchestrates the main components of the build-warden application.
// It wires together the configuration, the pollers, the notify queue and the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/db"
	"github.com/sevigo/build-warden/internal/gitutil"
	"github.com/sevigo/build-warden/internal/jenkins"
	"github.com/sevigo/build-warden/internal/jobs"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/reviewboard"
	"github.com/sevigo/build-warden/internal/server"
	"github.com/sevigo/build-warden/internal/storage"
)

// App holds the main application components.
type App struct {
	Cfg         *config.Config
	DB          *db.DB
	Store       storage.Store
	ReviewBoard *reviewboard.Client
	Jenkins     *jenkins.Client
	Pollers     *poller.Manager
	Notifier    *jobs.NotifyJob
	Dispatcher  core.JobDispatcher
	Server      *server.Server
	Git         *gitutil.Client
	Logger      *slog.Logger
}

// NewApp creates the application from its already constructed components.
func NewApp(
	cfg *config.Config,
	dbConn *db.DB,
	store storage.Store,
	rb *reviewboard.Client,
	jk *jenkins.Client,
	pollers *poller.Manager,
	notifier *jobs.NotifyJob,
	dispatcher core.JobDispatcher,
	srv *server.Server,
	gitClient *gitutil.Client,
	logger *slog.Logger,
) *App {
	return &App{
		Cfg:         cfg,
		DB:          dbConn,
		Store:       store,
		ReviewBoard: rb,
		Jenkins:     jk,
		Pollers:     pollers,
		Notifier:    notifier,
		Dispatcher:  dispatcher,
		Server:      srv,
		Git:         gitClient,
		Logger:      logger,
	}
}

// ResolveReview turns a user supplied review reference into a canonical one.
func (a *App) ResolveReview(value string) (core.ReviewRef, error) {
	return core.LegacyStringRef(value).Resolve(a.ReviewBoard.BaseURL())
}

// Start verifies the review server credentials, starts the pollers and runs
// the HTTP server. It blocks until the server stops.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("starting build-warden",
		"server_port", a.Cfg.Server.Port,
		"review_board", a.Cfg.ReviewBoard.URL,
		"jenkins", a.Cfg.Jenkins.URL,
		"pollers", len(a.Pollers.Pollers()),
	)

	if err := a.ReviewBoard.EnsureAuthentication(ctx); err != nil {
		if errors.Is(err, core.ErrAuth) {
			return fmt.Errorf("review board rejected the configured credentials: %w", err)
		}
		a.Logger.Warn("review board is not reachable, pollers will keep retrying", "error", err)
	}

	if len(a.Pollers.Pollers()) == 0 {
		a.Logger.Warn("no pollers configured, only the HTTP API is served")
	}
	if err := a.Pollers.Start(ctx); err != nil {
		return fmt.Errorf("failed to start pollers: %w", err)
	}

	if err := a.Server.Start(); err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		a.Pollers.Stop()
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.Logger.Info("shutting down build-warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.Server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.Pollers.Stop()

	// Stop the job dispatcher, allowing in-flight jobs to finish.
	a.Dispatcher.Stop()

	logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.ReviewBoard.Logout(logoutCtx)

	if serverErr != nil {
		a.Logger.Error("build-warden stopped with errors", "error", serverErr)
		return serverErr
	}

	a.Logger.Info("build-warden stopped successfully")
	return nil
}
