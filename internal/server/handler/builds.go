package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/jobs"
)

const maxOutcomeBody = 1 << 20

// BuildHandler accepts finished build outcomes and queues the notify job.
type BuildHandler struct {
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewBuildHandler creates a handler backed by the job dispatcher.
func NewBuildHandler(dispatcher core.JobDispatcher, logger *slog.Logger) *BuildHandler {
	return &BuildHandler{dispatcher: dispatcher, logger: logger}
}

// Notify processes POST /api/v1/builds/notify.
func (h *BuildHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var outcome core.BuildOutcome
	dec := json.NewDecoder(io.LimitReader(r.Body, maxOutcomeBody))
	if err := dec.Decode(&outcome); err != nil {
		h.logger.Warn("could not parse build outcome", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "could not parse build outcome")
		return
	}
	if err := outcome.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), &outcome); err != nil {
		h.logger.Error("failed to dispatch notify job", "review", outcome.Review, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrQueueFull) || errors.Is(err, jobs.ErrDispatcherStopped) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, h.logger, status, err.Error())
		return
	}

	h.logger.Info("notify job accepted", "review", outcome.Review, "result", outcome.Result)
	writeJSON(w, h.logger, http.StatusAccepted, map[string]string{"status": "accepted"})
}
