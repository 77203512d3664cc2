package http

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"agrodash/internal/charts"
	apierrors "agrodash/internal/errors"
	"agrodash/internal/exporter"
	"agrodash/internal/files"
	"agrodash/internal/services"
	"agrodash/pkg/contracts/domain"
)

// DashboardHandler serves the dashboard views with RFC 7807 errors.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/meta", h.GetMeta)
		r.Get("/artifacts", h.ListArtifacts)

		r.Group(func(r chi.Router) {
			r.Use(h.CriteriaCtx)
			r.Get("/records", h.GetRecords)
			r.Get("/monthly", h.GetMonthly)
			r.Get("/dollar-average", h.GetDollarAverage)
			r.Get("/trend", h.GetTrend)
			r.Get("/correlation", h.GetCorrelation)
		})
	})

	// Binary responses set their own content type
	r.With(h.CriteriaCtx).Get("/charts/{mode}", h.GetChart)
	r.With(h.CriteriaCtx).Get("/export/{format}", h.Export)
	r.Get("/artifacts/{name}", h.GetArtifact)

	return r
}

type criteriaKey struct{}

// CriteriaCtx resolves the filter query parameters into the request context.
func (h *DashboardHandler) CriteriaCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := h.service.Criteria(ParseCriteriaRequest(r))
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := withCriteria(r.Context(), c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseCriteriaRequest reads the from, to, commodities and rate query
// parameters. commodities is comma separated and may repeat; present but
// empty, it selects no commodity.
func ParseCriteriaRequest(r *http.Request) services.CriteriaRequest {
	q := r.URL.Query()
	req := services.CriteriaRequest{
		From: strings.TrimSpace(q.Get("from")),
		To:   strings.TrimSpace(q.Get("to")),
		Rate: strings.ToLower(strings.TrimSpace(q.Get("rate"))),
	}
	if values, ok := q["commodities"]; ok {
		req.Commodities = []string{}
		for _, v := range values {
			for _, name := range strings.Split(v, ",") {
				if name = strings.TrimSpace(name); name != "" {
					req.Commodities = append(req.Commodities, name)
				}
			}
		}
	}
	return req
}

// GetMeta handles GET /api/dashboard/meta
func (h *DashboardHandler) GetMeta(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Meta(r.Context()),
	})
}

// GetRecords handles GET /api/dashboard/records
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r.Context())

	h.logger.DebugContext(r.Context(), "fetching records",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("criteria", c),
	)

	view, err := h.service.Records(r.Context(), c)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  view.Len(),
	})
}

// GetMonthly handles GET /api/dashboard/monthly
func (h *DashboardHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Monthly(r.Context(), criteriaFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
		"count":  len(summary.Buckets),
	})
}

// GetDollarAverage handles GET /api/dashboard/dollar-average
func (h *DashboardHandler) GetDollarAverage(w http.ResponseWriter, r *http.Request) {
	avg, err := h.service.DollarAverage(r.Context(), criteriaFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   avg,
	})
}

// GetTrend handles GET /api/dashboard/trend. An unavailable trend is a
// successful response with available set to false.
func (h *DashboardHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.service.Trend(r.Context(), criteriaFrom(r.Context()),
		strings.TrimSpace(q.Get("x")), strings.TrimSpace(q.Get("y")))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   res,
	})
}

// GetCorrelation handles GET /api/dashboard/correlation
func (h *DashboardHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Correlation(r.Context(), criteriaFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   m,
	})
}

// GetChart handles GET /api/dashboard/charts/{mode}?format=. The chart is
// SVG unless format is pdf.
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("mode", err))
		return
	}
	f, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", err))
		return
	}

	var buf bytes.Buffer
	name, err := h.service.Chart(r.Context(), &buf, criteriaFrom(r.Context()), mode, f)
	if errors.Is(err, charts.ErrNoChart) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("chart for mode %s", mode)))
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Export handles GET /api/dashboard/export/{format}?mode=. The report is
// rendered in full before anything is written, so a failure is always a
// problem response rather than a truncated download.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", err))
		return
	}
	mode := domain.ModeDataExport
	if raw := strings.TrimSpace(r.URL.Query().Get("mode")); raw != "" {
		if mode, err = domain.ParseMode(raw); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("mode", err))
			return
		}
	}

	var buf bytes.Buffer
	name, err := h.service.Export(r.Context(), &buf, criteriaFrom(r.Context()), mode, f)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "report exported",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("mode", string(mode)),
		slog.String("format", string(f)),
		slog.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ListArtifacts handles GET /api/dashboard/artifacts
func (h *DashboardHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.Artifacts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	resp := map[string]interface{}{
		"status": "success",
		"data":   artifacts,
		"count":  len(artifacts),
	}
	if latest, ok := files.GetLatestFile(artifacts); ok {
		resp["latest"] = latest.Name
	}
	render.JSON(w, r, resp)
}

// GetArtifact handles GET /api/dashboard/artifacts/{name}
func (h *DashboardHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, info, err := h.service.OpenArtifact(r.Context(), name)
	switch {
	case errors.Is(err, files.ErrInvalidName):
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("name", err))
		return
	case errors.Is(err, fs.ErrNotExist):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("artifact %s", name)))
		return
	case err != nil:
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer f.Close()

	if info.Kind == string(charts.FormatSVG) {
		w.Header().Set("Content-Type", charts.FormatSVG.ContentType())
	} else {
		w.Header().Set("Content-Type", exporter.Format(info.Kind).ContentType())
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name))
	http.ServeContent(w, r, info.Name, info.ModTime, f)
}
