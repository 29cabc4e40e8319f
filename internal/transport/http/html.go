package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apierrors "screener/internal/errors"
	"screener/internal/services"
)

//go:embed templates/*.html
var templateFiles embed.FS

// HTMLHandler renders the two flows as plain HTML pages. The pages are
// cosmetic glue over the same services the JSON API uses.
type HTMLHandler struct {
	selection *services.SelectionService
	batch     *services.BatchService
	logger    *slog.Logger
	templates *template.Template
}

// NewHTMLHandler creates the HTML page handler.
func NewHTMLHandler(selection *services.SelectionService, batch *services.BatchService, logger *slog.Logger) (*HTMLHandler, error) {
	templates, err := template.New("pages").Funcs(template.FuncMap{
		"stratCell":  stratCell,
		"holdActive": holdActive,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &HTMLHandler{
		selection: selection,
		batch:     batch,
		logger:    logger,
		templates: templates,
	}, nil
}

// Index serves the landing page with the identifier form.
func (h *HTMLHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "index.html", nil)
}

// SelectionPage serves the single-stock flow as HTML. GET views existing
// files via the read-only script variant; a POSTed form re-runs the script.
func (h *HTMLHandler) SelectionPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := services.SelectionOptions{Invoke: true, PrintOnly: true}
	rawID := r.URL.Query().Get("id")
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
			return
		}
		rawID = r.PostFormValue("id")
		opts = services.SelectionOptions{Invoke: true}
	}

	result, err := h.selection.GetSelection(ctx, rawID, opts)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}

	h.renderPage(w, r, "selection.html", result)
}

// BatchPage serves the multi-file flow as HTML.
func (h *HTMLHandler) BatchPage(w http.ResponseWriter, r *http.Request) {
	result, err := h.batch.GetBatch(r.Context(), r.URL.Query().Get("refresh"))
	if err != nil {
		h.renderServiceError(w, err)
		return
	}

	h.renderPage(w, r, "batch.html", result)
}

func (h *HTMLHandler) renderPage(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template rendering failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
	}
}

func (h *HTMLHandler) renderServiceError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apierrors.APIError); ok {
		apierrors.WriteError(w, apiErr)
		return
	}
	apierrors.WriteError(w, apierrors.FileSystemError("page rendering", err))
}

// stratCell looks up one strategy-qualified value on a summary row.
func stratCell(cells map[string]string, strategy, suffix string) string {
	return cells[strategy+"_"+suffix]
}

// holdActive reports whether a hold-days value is a positive integer,
// the visual cue for an active position.
func holdActive(hold string) bool {
	days, err := strconv.Atoi(strings.TrimSpace(hold))
	return err == nil && days > 0
}
