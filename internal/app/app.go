package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"esgdash/internal/charts"
	"esgdash/internal/config"
	"esgdash/internal/dataset"
	"esgdash/internal/exporter"
	"esgdash/internal/infrastructure"
	"esgdash/internal/services"
)

// Application owns the dashboard server and everything it serves.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Services      *ServiceContainer
}

// ServiceContainer is the dependency graph shared by the server and the CLI.
type ServiceContainer struct {
	Loader    *dataset.Loader
	Dashboard *services.DashboardService
	Charts    *services.ChartService
	Exports   *services.ExportService
	Health    *services.HealthService
}

// NewApplication builds a ready to start application. A nil logger falls
// back to the process logger.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	metrics, err := infrastructure.CreateDashboardMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	container, err := NewServiceContainer(cfg, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Services:      container,
	}
	a.Router = a.newRouter()
	a.Server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

// NewServiceContainer resolves the dataset candidates and wires the
// dashboard services on top of one loader. metrics may be nil.
func NewServiceContainer(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) (*ServiceContainer, error) {
	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	paths.LogPathResolution(logger)

	var (
		loaderOpts []dataset.LoaderOption
		viewOpts   = []services.DashboardOption{services.WithDefaultTopN(cfg.Dashboard.DefaultTopN)}
		recorder   charts.RenderRecorder
	)
	if metrics != nil {
		loaderOpts = append(loaderOpts, dataset.WithRecorder(metrics))
		viewOpts = append(viewOpts, services.WithViewRecorder(metrics))
		recorder = metrics
	}

	loader := dataset.NewLoader(paths.ResolveCandidates(cfg.DatasetCandidates()), logger, loaderOpts...)
	renderer := charts.NewRenderer(charts.Options{
		Width:  float64(cfg.Dashboard.ChartWidth),
		Height: float64(cfg.Dashboard.ChartHeight),
	}, logger, recorder)

	return &ServiceContainer{
		Loader:    loader,
		Dashboard: services.NewDashboardService(loader, logger, viewOpts...),
		Charts:    services.NewChartService(renderer),
		Exports:   services.NewExportService(exporter.New(logger)),
		Health:    services.NewHealthService(config.AppVersion, loader, logger),
	}, nil
}
