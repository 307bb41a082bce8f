package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apierrors "esgdash/internal/errors"
	"esgdash/internal/exporter"
	appmw "esgdash/internal/middleware"
	"esgdash/internal/services"
	api "esgdash/pkg/contracts/api/v1"
)

// ExportHandler serves view tables as csv or xlsx downloads.
type ExportHandler struct {
	service      services.DashboardProvider
	exports      ExportProvider
	validator    *appmw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler.
func NewExportHandler(service services.DashboardProvider, exports ExportProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		exports:      exports,
		validator:    appmw.NewValidator(),
		logger:       logger.With(slog.String("handler", "export")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes, mounted under /api/export.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{view}.{format}", h.Export)
	return r
}

// Export handles GET /api/export/{view}.{format}. The widgets in the query
// string select the filtered rows and the metric just as on the page.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	req := api.ExportRequest{
		View:   chi.URLParam(r, "view"),
		Format: chi.URLParam(r, "format"),
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		for _, e := range errs {
			if e.Field == "view" {
				h.errorHandler.HandleError(w, r, apierrors.UnknownViewError(req.View))
				return
			}
		}
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(req.Format))
		return
	}
	format := exporter.Format(req.Format)

	d, err := build(r.Context(), h.service, h.validator, r.URL.Query(), services.Interactive)
	if err != nil {
		h.errorHandler.HandleError(w, r, apiError(err, req.View))
		return
	}

	var buf bytes.Buffer
	if err := h.exports.Export(&buf, d, req.View, format); err != nil {
		h.logger.WarnContext(r.Context(), "export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("view", req.View))
		h.errorHandler.HandleError(w, r, apiError(err, req.View))
		return
	}

	h.logger.InfoContext(r.Context(), "view exported",
		slog.String("request_id", reqID),
		slog.String("view", req.View),
		slog.String("format", req.Format),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.View+"."+req.Format))
	_, _ = buf.WriteTo(w)
}
