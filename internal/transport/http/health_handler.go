package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"esgdash/internal/services"
)

// HealthHandler serves the probes and the version endpoint.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the probe routes, mounted under /api/health.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.HealthCheck(r.Context()))
	})
	r.Get("/ready", h.Ready)
	r.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.LivenessCheck(r.Context()))
	})
	return r
}

// Ready answers 503 while no dataset candidate loads.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != services.StatusReady {
		reason := ""
		if status.Dataset != nil {
			reason = status.Dataset.Message
		}
		h.logger.WarnContext(r.Context(), "readiness check failed", slog.String("reason", reason))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
