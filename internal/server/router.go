package server

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/server/handler"
)

// requestTimeout bounds synchronous poll cycles triggered over HTTP.
const requestTimeout = 2 * time.Minute

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(pollers *poller.Manager, store core.DispatchStore, dispatcher core.JobDispatcher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	pollerHandler := handler.NewPollerHandler(pollers, store, logger)
	buildHandler := handler.NewBuildHandler(dispatcher, logger)

	r.Get("/health", pollerHandler.Health)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pollers/{name}", func(r chi.Router) {
			r.Post("/run", pollerHandler.Run)
			r.Get("/dispatches", pollerHandler.Dispatches)
		})
		r.Post("/builds/notify", buildHandler.Notify)
	})

	return r
}
