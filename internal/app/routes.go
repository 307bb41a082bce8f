package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"esgdash/internal/charts"
	apierrors "esgdash/internal/errors"
	mw "esgdash/internal/middleware"
	"esgdash/internal/services"
	handlers "esgdash/internal/transport/http"
)

const compressLevel = 5

// newRouter assembles the middleware chain and the routes. /metrics stays
// outside the chain so scrapes are neither logged nor rate limited.
func (a *Application) newRouter() *chi.Mux {
	cfg := a.Config
	problems := apierrors.NewErrorHandler(a.Logger, cfg.Telemetry.Environment == "development")

	r := chi.NewRouter()
	r.Use(mw.RequestID, mw.RealIP)
	r.NotFound(problems.NotFound)
	r.MethodNotAllowed(problems.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		if tracing, err := mw.NewOTelMiddleware(a.OTelProviders, a.Metrics); err != nil {
			a.Logger.Warn("request telemetry disabled", slog.String("error", err.Error()))
		} else {
			r.Use(tracing.Handler)
		}
		r.Use(
			mw.StructuredLogger(a.Logger),
			apierrors.RecoveryMiddleware(problems),
			mw.Timeout(cfg.Server.RequestTimeout, a.Logger),
			mw.SecurityHeaders,
			mw.Compress(compressLevel),
		)
		if cfg.Security.EnableCORS {
			r.Use(mw.CORS(mw.CORSConfig{AllowedOrigins: cfg.Security.AllowedOrigins, Logger: a.Logger}))
		}
		if limit := cfg.Security.RateLimit; limit.Enabled {
			r.Use(mw.NewRateLimiter(limit.RPS, limit.Burst, a.Logger).Handler)
		}

		a.mountRoutes(r, problems)
	})
	return r
}

func (a *Application) mountRoutes(r chi.Router, problems *apierrors.ErrorHandler) {
	svc := a.Services
	page := handlers.NewDashboardHandler(svc.Dashboard, a.Logger, problems).
		WithChartFormat(charts.Format(a.Config.Dashboard.ChartFormat))
	chartsHandler := handlers.NewChartHandler(svc.Dashboard, svc.Charts, a.Logger, problems)
	exports := handlers.NewExportHandler(svc.Dashboard, svc.Exports, a.Logger, problems)
	health := handlers.NewHealthHandler(svc.Health, a.Logger)

	r.Get("/", page.Page(services.Interactive))
	r.Get("/static-view", page.Page(services.Static))
	r.Mount("/charts", chartsHandler.Routes(services.Interactive))
	r.Mount("/static-view/charts", chartsHandler.Routes(services.Static))

	r.Mount("/api/health", health.Routes())
	r.Get("/api/version", health.Version)
	r.Mount("/api/export", exports.Routes())
	r.Mount("/api", page.Routes())
}
