package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"riskscreen/internal/platform/metrics"
	"riskscreen/internal/platform/middleware"
	"riskscreen/internal/screening"
	"riskscreen/pkg/platform/httputil"
)

// maxBodyBytes bounds a screening request body.
const maxBodyBytes = 4 << 20

// Service defines the screening operations the handler needs.
type Service interface {
	ProcessBatch(ctx context.Context, rows []screening.TransactionRecord) (*screening.BatchResult, error)
}

// Handler wires the screening endpoint to the pipeline service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a screening handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts the screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.ContentTypeJSON)
		v1.Use(middleware.LatencyMiddleware(h.metrics))
		v1.Post("/screenings", h.HandleScreen)
	})
}

// HandleScreen handles POST /v1/screenings.
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	var req ScreenRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid screening request", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	rows, err := req.Records()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid screening request", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ProcessBatch(ctx, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "screening failed",
			"request_id", requestID,
			"transactions", len(rows),
			"error", err,
		)
		httputil.WriteError(w, toAPIError(err))
		return
	}

	h.logger.InfoContext(ctx, "screening completed",
		"request_id", requestID,
		"batch_id", result.BatchID,
		"verdicts", len(result.Verdicts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

func toAPIError(err error) error {
	switch {
	case errors.Is(err, screening.ErrInvalidInput):
		return httputil.NewError(http.StatusBadRequest, httputil.CodeBadRequest, err.Error(), err)
	case errors.Is(err, screening.ErrBatchFailed):
		return httputil.NewError(http.StatusBadGateway, httputil.CodeBatchFailed, batchFailureReason(err), err)
	default:
		return err
	}
}

func batchFailureReason(err error) string {
	switch {
	case errors.Is(err, screening.ErrUnparseableResponse):
		return "risk synthesis returned no usable verdicts"
	case errors.Is(err, screening.ErrVerdictCountMismatch):
		return "risk synthesis returned the wrong number of verdicts"
	case errors.Is(err, context.DeadlineExceeded):
		return "risk synthesis timed out"
	default:
		return "risk synthesis failed"
	}
}
