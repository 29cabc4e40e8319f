package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "screener/internal/errors"
	"screener/internal/exporter"
	"screener/internal/runner"
	"screener/internal/services"
)

// SelectionHandler handles single-stock flow HTTP requests.
type SelectionHandler struct {
	service  *services.SelectionService
	logger   *slog.Logger
	validate *validator.Validate
}

// selectionRequest carries the bound and validated request parameters.
// The identifier itself is still sanitized before any use; validation only
// rejects grossly oversized input early.
type selectionRequest struct {
	ID string `validate:"required,max=64"`
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(service *services.SelectionService, logger *slog.Logger) *SelectionHandler {
	return &SelectionHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// Routes returns the selection API routes.
func (h *SelectionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Post("/", h.Post)
	r.Get("/{id}/export", h.Export)
	return r
}

// Get runs the read-only variant: the script is invoked with the print
// flag and regenerates nothing.
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, r.URL.Query().Get("id"), services.SelectionOptions{
		Invoke:    true,
		PrintOnly: true,
	})
}

// Post runs the full variant: the script recomputes every strategy for the
// identifier before the files are read.
func (h *SelectionHandler) Post(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	h.handle(w, r, r.PostFormValue("id"), services.SelectionOptions{
		Invoke: true,
	})
}

// Export streams the current summary as an xlsx workbook without invoking
// the script.
func (h *SelectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawID := chi.URLParam(r, "id")
	req := selectionRequest{ID: rawID}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("id", err.Error())))
		return
	}

	result, err := h.service.GetSelection(ctx, rawID, services.SelectionOptions{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.ID+"_summary.xlsx"))

	if err := exporter.WriteSelectionWorkbook(w, result); err != nil {
		// Headers are already out; all that is left is logging.
		h.logger.ErrorContext(ctx, "failed to stream workbook",
			slog.String("id", result.ID),
			slog.String("error", err.Error()))
	}
}

func (h *SelectionHandler) handle(w http.ResponseWriter, r *http.Request, rawID string, opts services.SelectionOptions) {
	ctx := r.Context()

	req := selectionRequest{ID: rawID}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("id", err.Error())))
		return
	}

	h.logger.InfoContext(ctx, "selection requested",
		slog.String("id", runner.Sanitize(rawID)),
		slog.Bool("print_only", opts.PrintOnly))

	result, err := h.service.GetSelection(ctx, rawID, opts)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

func (h *SelectionHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := err.(*apierrors.APIError); ok {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}
	render.Render(w, r, apierrors.NewErrorResponse(apierrors.FileSystemError("file discovery", err)))
}
