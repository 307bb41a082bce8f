package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"esgdash/internal/charts"
	apierrors "esgdash/internal/errors"
	appmw "esgdash/internal/middleware"
	"esgdash/internal/services"
	api "esgdash/pkg/contracts/api/v1"
)

// ChartHandler serves chart images for the current widget state.
type ChartHandler struct {
	service      services.DashboardProvider
	charts       ChartProvider
	validator    *appmw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a chart handler.
func NewChartHandler(service services.DashboardProvider, charts ChartProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		charts:       charts,
		validator:    appmw.NewValidator(),
		logger:       logger.With(slog.String("handler", "charts")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes for a variant.
func (h *ChartHandler) Routes(variant services.Variant) chi.Router {
	r := chi.NewRouter()
	r.Get("/{name}.{format}", h.GetChart(variant))
	return r
}

// GetChart handles GET /charts/{name}.{format}.
func (h *ChartHandler) GetChart(variant services.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		req := api.ChartRequest{
			Name:   chi.URLParam(r, "name"),
			Format: chi.URLParam(r, "format"),
		}
		if errs := h.validator.ValidateStruct(req); errs != nil {
			for _, e := range errs {
				if e.Field == "name" {
					h.errorHandler.HandleError(w, r, apierrors.UnknownViewError(req.Name))
					return
				}
			}
			h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(req.Format))
			return
		}
		format := charts.Format(req.Format)

		d, err := build(r.Context(), h.service, h.validator, r.URL.Query(), variant)
		if err != nil {
			h.errorHandler.HandleError(w, r, apiError(err, req.Name))
			return
		}

		start := time.Now()
		data, err := h.charts.Render(r.Context(), d, req.Name, format)
		if err != nil {
			h.errorHandler.HandleError(w, r, apiError(err, req.Name))
			return
		}

		h.logger.DebugContext(r.Context(), "chart served",
			slog.String("request_id", reqID),
			slog.String("chart", req.Name),
			slog.String("format", req.Format),
			slog.Int("bytes", len(data)),
			slog.Duration("duration", time.Since(start)))

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	}
}
