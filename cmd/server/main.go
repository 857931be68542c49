package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/build-warden/internal/wire"
)

func main() {
	if err := run(); err != nil {
		slog.Error("build-warden exited with error", "error", err)
		os.Exit(1)
	}
}

// run blocks until a signal arrives or the HTTP server fails, then stops the
// pollers, the API and the notify queue in that order.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	startErr := make(chan error, 1)
	go func() {
		startErr <- app.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal")
	case runErr = <-startErr:
		if runErr != nil {
			slog.Error("build-warden failed", "error", runErr)
		}
	}

	if err := app.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return runErr
}
