// Package http exposes the pipeline outputs over a small JSON API. External
// consumers address reports by stable name, never by row offset.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "carsales/internal/errors"
	"carsales/pkg/contracts/domain"
)

// PipelineReader is the read-and-refresh surface the handlers need.
type PipelineReader interface {
	Ready() bool
	Reports() *domain.ReportSet
	Derived() []domain.DerivedRecord
	Clean() []domain.CleanRecord
	Refresh(ctx context.Context) error
}

// ReportsHandler serves the report catalog and the export datasets.
type ReportsHandler struct {
	service PipelineReader
	logger  *slog.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(service PipelineReader, logger *slog.Logger) *ReportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "reports_handler")),
	}
}

// Routes returns the API routes.
func (h *ReportsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/reports", h.ListReports)
	r.Get("/reports/{name}", h.GetReport)
	r.Get("/sales", h.GetDerived)
	r.Get("/sales/clean", h.GetClean)
	r.Post("/pipeline/refresh", h.RefreshPipeline)

	return r
}

// ListReports returns the stable report names.
func (h *ReportsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	set, ok := h.reportSet(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{"reports": set.Names()})
}

// GetReport returns one report by name.
func (h *ReportsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	set, ok := h.reportSet(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	report, found := set.Get(name)
	if !found {
		render.Render(w, r, apperrors.NotFoundf("REPORT_NOT_FOUND", "no report named %q", name))
		return
	}
	render.JSON(w, r, map[string]interface{}{"name": name, "rows": report})
}

// GetDerived returns the derived export dataset.
func (h *ReportsHandler) GetDerived(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		render.Render(w, r, apperrors.ErrNotReady)
		return
	}
	render.JSON(w, r, h.service.Derived())
}

// GetClean returns the clean dataset.
func (h *ReportsHandler) GetClean(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		render.Render(w, r, apperrors.ErrNotReady)
		return
	}
	render.JSON(w, r, h.service.Clean())
}

// RefreshPipeline re-runs the full pipeline and swaps the snapshot.
func (h *ReportsHandler) RefreshPipeline(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		stage, _ := apperrors.StageOf(err)
		h.logger.Error("refresh failed",
			slog.String("stage", stage),
			slog.String("error", err.Error()))
		render.Render(w, r, apperrors.ErrInternal)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "refreshed"})
}

func (h *ReportsHandler) reportSet(w http.ResponseWriter, r *http.Request) (*domain.ReportSet, bool) {
	set := h.service.Reports()
	if set == nil {
		render.Render(w, r, apperrors.ErrNotReady)
		return nil, false
	}
	return set, true
}
