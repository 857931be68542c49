package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/poller"
)

// CycleResponse is the body returned after an on-demand poll cycle.
type CycleResponse struct {
	Report *core.CycleReport `json:"report,omitempty"`
	Errors []string          `json:"errors"`
	Error  string            `json:"error,omitempty"`
}

// PollerHandler exposes the pollers and their dispatch records.
type PollerHandler struct {
	pollers *poller.Manager
	store   core.DispatchStore
	logger  *slog.Logger
}

// NewPollerHandler creates a handler for the /pollers routes.
func NewPollerHandler(pollers *poller.Manager, store core.DispatchStore, logger *slog.Logger) *PollerHandler {
	return &PollerHandler{pollers: pollers, store: store, logger: logger}
}

// Run executes one cycle synchronously and returns its report.
func (h *PollerHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := h.pollers.Get(name)
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "unknown poller: "+name)
		return
	}

	report, err := p.RunOnce(r.Context())
	if errors.Is(err, poller.ErrCycleInProgress) {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}

	resp := CycleResponse{Report: report, Errors: []string{}}
	if report != nil {
		resp.Errors = report.ErrorMessages()
	}
	status := http.StatusOK
	if err != nil {
		h.logger.Warn("on-demand poll cycle failed", "poller", name, "error", err)
		resp.Error = err.Error()
		status = http.StatusBadGateway
	}
	writeJSON(w, h.logger, status, resp)
}

// Dispatches lists the dispatch records of a poller.
func (h *PollerHandler) Dispatches(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.pollers.Get(name); !ok {
		writeError(w, h.logger, http.StatusNotFound, "unknown poller: "+name)
		return
	}

	records, err := h.store.ListDispatches(r.Context(), name)
	if err != nil {
		h.logger.Error("failed to list dispatches", "poller", name, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to list dispatches")
		return
	}
	if records == nil {
		records = []core.DispatchRecord{}
	}
	writeJSON(w, h.logger, http.StatusOK, records)
}

// PollerHealth is the health of a single poller.
type PollerHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Pollers []PollerHealth `json:"pollers"`
}

// Health reports 200 when every poller runs and its last cycle succeeded.
func (h *PollerHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Pollers: []PollerHealth{}}
	status := http.StatusOK

	for _, p := range h.pollers.Pollers() {
		healthy, msg := p.HealthCheck()
		resp.Pollers = append(resp.Pollers, PollerHealth{Name: p.Name(), Healthy: healthy, Message: msg})
		if !healthy {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, h.logger, status, resp)
}
