package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"esgdash/internal/config"
)

// InstrumentationName names the tracer, the meter and the service resource.
const InstrumentationName = "esgdash"

// OTelProviders bundles what the rest of the process needs from telemetry.
// Tracer and Meter are never nil; the SDK providers are nil when their
// part is switched off.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	logger *slog.Logger
}

// InitializeOTel sets up stdout tracing and Prometheus metrics as cfg asks.
// Each call gets its own Prometheus registry, so the process can initialise
// more than once.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}

	p := &OTelProviders{
		Tracer: otel.Tracer(InstrumentationName),
		Meter:  otel.Meter(InstrumentationName),
		logger: logger,
	}
	res := serviceResource(cfg.Environment)

	if cfg.EnableTracing {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		p.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		)
		p.Tracer = p.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
		otel.SetTracerProvider(p.TracerProvider)
	}

	if cfg.EnableMetrics {
		registry := promclient.NewRegistry()
		exp, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("prometheus exporter: %w", err)
		}
		p.MeterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(exp))
		p.Meter = p.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
		p.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("telemetry configured",
		slog.Bool("tracing", cfg.EnableTracing),
		slog.Bool("metrics", cfg.EnableMetrics),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return p, nil
}

func serviceResource(environment string) *resource.Resource {
	instance := uuid.NewString()
	if host, err := os.Hostname(); err == nil {
		instance = host + "-" + instance[:8]
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(InstrumentationName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", instance),
		semconv.DeploymentEnvironmentName(environment),
	)
}

// Shutdown flushes and stops whichever SDK providers were started.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		errs = append(errs, p.TracerProvider.Shutdown(ctx))
	}
	if p.MeterProvider != nil {
		errs = append(errs, p.MeterProvider.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	p.logger.DebugContext(ctx, "telemetry stopped")
	return nil
}
