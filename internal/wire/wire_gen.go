// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/build-warden/internal/app"
	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/db"
	"github.com/sevigo/build-warden/internal/gitutil"
	"github.com/sevigo/build-warden/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(_ context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(loggerConfig)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	// Database, migrated on open
	dbConfig := provideDBConfig(cfg)
	dbConn, dbCleanup, err := db.NewDatabase(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := provideStore(dbConn)

	// Review server and build server
	rbClient, err := provideReviewBoard(cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create review board client: %w", err)
	}
	jenkinsClient := provideJenkins(cfg, slogLogger)

	// Pollers
	pollerConfigs, err := providePollerConfigs(cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, err
	}
	orchestrator := provideOrchestrator(cfg, rbClient, jenkinsClient, store, slogLogger)
	pollerManager := providePollerManager(cfg, pollerConfigs, orchestrator, slogLogger)

	// Notify queue
	notifyJob := provideNotifyJob(cfg, rbClient, slogLogger)
	dispatcher, dispatcherCleanup := provideDispatcher(cfg, notifyJob, slogLogger)

	// Server
	srv := server.NewServer(cfg, pollerManager, store, dispatcher, slogLogger)

	gitClient := gitutil.NewClient(slogLogger)

	application := app.NewApp(cfg, dbConn, store, rbClient, jenkinsClient, pollerManager, notifyJob, dispatcher, srv, gitClient, slogLogger)

	cleanup := func() {
		dispatcherCleanup()
		dbCleanup()
	}

	return application, cleanup, nil
}
