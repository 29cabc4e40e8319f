package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "screener/internal/errors"
	"screener/internal/services"
)

// BatchHandler handles multi-file flow HTTP requests.
type BatchHandler struct {
	service *services.BatchService
	logger  *slog.Logger
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(service *services.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{service: service, logger: logger}
}

// Routes returns the batch API routes.
func (h *BatchHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	return r
}

// Get reads the five fixed stage files, regenerating them first when the
// refresh parameter equals the literal "yes".
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refresh := r.URL.Query().Get("refresh")

	h.logger.InfoContext(ctx, "batch requested",
		slog.String("refresh", refresh))

	result, err := h.service.GetBatch(ctx, refresh)
	if err != nil {
		if apiErr, ok := err.(*apierrors.APIError); ok {
			render.Render(w, r, apierrors.NewErrorResponse(apiErr))
			return
		}
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FileSystemError("batch flow", err)))
		return
	}

	render.JSON(w, r, result)
}
