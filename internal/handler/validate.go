// Package handler exposes the companion service's HTTP surface: the
// validation verdict endpoint the setup form depends on, and the recent
// server history behind its suggestions.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/catdvtools/connect/internal/domain"
	"github.com/catdvtools/connect/internal/history"
	"github.com/catdvtools/connect/internal/middleware"
	"github.com/catdvtools/connect/internal/probe"
	"github.com/labstack/echo/v4"
)

// Recorder is the slice of the history store the validate handler needs.
type Recorder interface {
	Record(ctx context.Context, url string) error
}

// verdictResponse is the wire shape the setup form's verifier decodes.
type verdictResponse struct {
	ValidationResult bool `json:"validation_result"`
}

// errorResponse carries a user-safe message for request-level failures.
type errorResponse struct {
	Error string `json:"error"`
}

// ValidateHandler answers GET /validate with a verdict on a candidate URL.
type ValidateHandler struct {
	prober  probe.Prober
	history Recorder
	metrics *middleware.Metrics
	logger  *slog.Logger
}

// NewValidateHandler creates a ValidateHandler. history and metrics may be
// nil; recording and counting are then skipped.
func NewValidateHandler(p probe.Prober, history Recorder, metrics *middleware.Metrics, logger *slog.Logger) *ValidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateHandler{
		prober:  p,
		history: history,
		metrics: metrics,
		logger:  logger,
	}
}

// Validate handles GET /validate?url=<candidate>.
//
// A missing url parameter is the caller's error and gets a 400. Once the
// probe runs, the answer is always 200 with a boolean verdict: the setup
// form treats any non-2xx as "could not verify", so an unreachable or
// unrecognised candidate must arrive as a false verdict, not a 5xx.
func (h *ValidateHandler) Validate(c echo.Context) error {
	candidate := c.QueryParam("url")
	if candidate == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: domain.ErrorMessage(domain.Errorf(domain.EINVALID, "handler.validate", "missing url parameter")),
		})
	}

	recognised, err := h.prober.Probe(c.Request().Context(), candidate)
	if err != nil {
		h.logger.Debug("probe reported error", "candidate", candidate, "error", err)
	}

	if h.metrics != nil {
		h.metrics.RecordVerdict(recognised)
	}

	if recognised && h.history != nil {
		// Best effort: a history failure must not turn a good verdict
		// into a failure.
		if err := h.history.Record(c.Request().Context(), candidate); err != nil {
			h.logger.Error("failed to record validated server", "candidate", candidate, "error", err)
		}
	}

	return c.JSON(http.StatusOK, verdictResponse{ValidationResult: recognised})
}

// ServersHandler answers GET /servers with recently validated servers.
type ServersHandler struct {
	store  *history.Store
	logger *slog.Logger
}

// NewServersHandler creates a ServersHandler.
func NewServersHandler(store *history.Store, logger *slog.Logger) *ServersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServersHandler{store: store, logger: logger}
}

// Servers handles GET /servers?limit=N, newest first.
func (h *ServersHandler) Servers(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
	}

	servers, err := h.store.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent servers", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error: domain.ErrorMessage(domain.WrapError(err, domain.EINTERNAL, "handler.servers", "failed to list servers")),
		})
	}

	if servers == nil {
		servers = []history.Server{}
	}

	return c.JSON(http.StatusOK, servers)
}
