package wire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/build-warden/internal/app"
	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/db"
	"github.com/sevigo/build-warden/internal/gitutil"
	"github.com/sevigo/build-warden/internal/jenkins"
	"github.com/sevigo/build-warden/internal/jobs"
	"github.com/sevigo/build-warden/internal/logger"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/reviewboard"
	"github.com/sevigo/build-warden/internal/server"
	"github.com/sevigo/build-warden/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	db.NewDatabase,
	provideStore,
	provideReviewBoard,
	provideJenkins,
	provideOrchestrator,
	providePollerConfigs,
	providePollerManager,
	provideNotifyJob,
	provideDispatcher,
	gitutil.NewClient,
	provideLoggerConfig,
	provideLogWriter,
	provideDBConfig,
	provideSlogLogger,
	wire.Bind(new(core.ReviewSource), new(*reviewboard.Client)),
	wire.Bind(new(core.BuildTrigger), new(*jenkins.Client)),
	wire.Bind(new(core.DispatchStore), new(storage.Store)),
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg logger.Config) io.Writer {
	return cfg.Writer()
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	l := logger.NewLogger(loggerConfig, writer)
	slog.SetDefault(l)
	return l
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideStore(conn *db.DB) storage.Store {
	return storage.NewStore(conn.DB)
}

func provideReviewBoard(cfg *config.Config, logger *slog.Logger) (*reviewboard.Client, error) {
	return reviewboard.NewClient(cfg.ReviewBoard, logger)
}

func provideJenkins(cfg *config.Config, logger *slog.Logger) *jenkins.Client {
	return jenkins.NewClient(cfg.Jenkins, logger)
}

func provideOrchestrator(cfg *config.Config, source core.ReviewSource, trigger core.BuildTrigger, store storage.Store, logger *slog.Logger) *poller.Orchestrator {
	return poller.NewOrchestrator(source, trigger, store, cfg.Polling.MaxWorkers, logger)
}

// providePollerConfigs loads the pollers file. A missing file with no POLL_*
// fallback yields no pollers so that the CLI keeps working without one.
func providePollerConfigs(cfg *config.Config, logger *slog.Logger) ([]core.PollerConfig, error) {
	path := cfg.Polling.PollersFile
	pollers, err := config.LoadPollers(path)
	switch {
	case err == nil:
		return pollers, nil
	case errors.Is(err, config.ErrConfigNotFound):
		logger.Info("pollers file not found, using environment poller", "path", path, "poller", pollers[0].Name)
		return pollers, nil
	case errors.Is(err, config.ErrInvalidPoller):
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			logger.Warn("no pollers configured", "path", path)
			return nil, nil
		}
	}
	return nil, fmt.Errorf("failed to load pollers: %w", err)
}

func providePollerManager(cfg *config.Config, pollers []core.PollerConfig, orchestrator *poller.Orchestrator, logger *slog.Logger) *poller.Manager {
	return poller.NewManager(pollers, orchestrator, cfg.Polling.Interval, logger)
}

func provideNotifyJob(cfg *config.Config, source core.ReviewSource, logger *slog.Logger) *jobs.NotifyJob {
	return jobs.NewNotifyJob(source, cfg.Notify, logger)
}

func provideDispatcher(cfg *config.Config, job *jobs.NotifyJob, logger *slog.Logger) (core.JobDispatcher, func()) {
	d := jobs.NewDispatcher(job, cfg.Notify.QueueWorkers, logger)
	return d, d.Stop
}
