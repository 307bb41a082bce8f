package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"esgdash/internal/charts"
	apierrors "esgdash/internal/errors"
	appmw "esgdash/internal/middleware"
	"esgdash/internal/page"
	"esgdash/internal/services"
	"esgdash/pkg/contracts/domain"
)

// DashboardHandler serves the dashboard page and its JSON API.
type DashboardHandler struct {
	service      services.DashboardProvider
	validator    *appmw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	chartFormat  charts.Format
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service services.DashboardProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    appmw.NewValidator(),
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
		chartFormat:  charts.PNG,
	}
}

// WithChartFormat sets the image format the page links its charts in.
func (h *DashboardHandler) WithChartFormat(f charts.Format) *DashboardHandler {
	h.chartFormat = f
	return h
}

// Routes returns the JSON routes, mounted under /api.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/views/{view}", h.GetView)
	r.Get("/dataset", h.GetDataset)
	r.Post("/dataset/reload", h.ReloadDataset)
	return r
}

// build parses the widgets and runs the pipeline. Widget warnings come
// first in the returned messages.
func build(ctx context.Context, svc services.DashboardProvider, v *appmw.Validator, values url.Values, variant services.Variant) (*services.Dashboard, error) {
	q, warnings := ParseQuery(values, v)
	d, err := svc.Build(ctx, q, variant)
	if d != nil && len(warnings) > 0 {
		d.Messages = append(warnings, d.Messages...)
	}
	return d, err
}

// Page serves the HTML dashboard for a variant.
func (h *DashboardHandler) Page(variant services.Variant) http.HandlerFunc {
	chartPrefix := "/charts/"
	if variant == services.Static {
		chartPrefix = "/static-view/charts/"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())

		d, err := build(r.Context(), h.service, h.validator, r.URL.Query(), variant)
		status := http.StatusOK
		if err != nil {
			if !errors.Is(err, services.ErrNoDataset) {
				h.logger.ErrorContext(r.Context(), "failed to build dashboard",
					slog.String("error", err.Error()),
					slog.String("request_id", reqID))
				h.errorHandler.HandleError(w, r, apiError(err, ""))
				return
			}
			status = http.StatusServiceUnavailable
		}
		if d == nil {
			d = &services.Dashboard{Variant: variant}
		}

		query := r.URL.RawQuery
		link := func(name string) string {
			if query == "" {
				return chartPrefix + name + "." + string(h.chartFormat)
			}
			return chartPrefix + name + "." + string(h.chartFormat) + "?" + query
		}
		model := page.New(d.DTO(h.service.Candidates()), variant == services.Static, link)

		var buf bytes.Buffer
		if err := page.Render(&buf, model); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to render page",
				slog.String("error", err.Error()),
				slog.String("request_id", reqID))
			h.errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "building dashboard",
		slog.String("request_id", reqID),
		slog.String("query", r.URL.RawQuery))

	d, err := build(r.Context(), h.service, h.validator, r.URL.Query(), services.Interactive)
	if err != nil {
		h.errorHandler.HandleError(w, r, apiError(err, ""))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   d.DTO(h.service.Candidates()),
	})
}

// GetView handles GET /api/views/{view}.
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")
	if errs := h.validator.Var("view", name, "required,slug"); errs != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors([]apierrors.ValidationError{*errs}))
		return
	}

	d, err := build(r.Context(), h.service, h.validator, r.URL.Query(), services.Interactive)
	if err != nil {
		h.errorHandler.HandleError(w, r, apiError(err, name))
		return
	}

	view, err := d.ViewDTO(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apiError(err, name))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"view":     name,
		"data":     view,
		"messages": viewMessages(d.Messages, name),
	})
}

// GetDataset handles GET /api/dataset. A missing dataset is reported in the
// body with loaded=false and the loader diagnostics.
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Dataset(r.Context())
	if err != nil && !errors.Is(err, services.ErrNoDataset) {
		h.errorHandler.HandleError(w, r, apiError(err, ""))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   services.DatasetMeta(res, h.service.Candidates()),
	})
}

// ReloadDataset handles POST /api/dataset/reload.
func (h *DashboardHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	res, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, apiError(err, ""))
		return
	}

	meta := services.DatasetMeta(res, h.service.Candidates())
	h.logger.InfoContext(r.Context(), "dataset reloaded",
		slog.String("request_id", reqID),
		slog.String("source", meta.Source),
		slog.Int("rows", meta.Rows))

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("loaded %d rows from %s", meta.Rows, meta.Source),
		"data":    meta,
	})
}

func viewMessages(messages []domain.Message, view string) []domain.Message {
	out := []domain.Message{}
	for _, m := range messages {
		if m.View == view || m.View == "" {
			out = append(out, m)
		}
	}
	return out
}
