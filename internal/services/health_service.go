package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"esgdash/pkg/contracts"
)

// Health states.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthService answers the probes under /api/health.
type HealthService struct {
	version string
	source  DatasetSource
	started time.Time
	now     func() time.Time
	logger  *slog.Logger
}

// HealthStatus is the body of every probe.
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Dataset   *DatasetHealth `json:"dataset,omitempty"`
	Runtime   *RuntimeHealth `json:"runtime,omitempty"`
}

// DatasetHealth reports whether the company table is available.
type DatasetHealth struct {
	Status   string    `json:"status"`
	Source   string    `json:"source,omitempty"`
	Rows     int       `json:"rows"`
	Message  string    `json:"message,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// RuntimeHealth is process information for the liveness probe.
type RuntimeHealth struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	HeapBytes     uint64  `json:"heap_bytes"`
}

// VersionInfo is the body of /api/version.
type VersionInfo struct {
	contracts.BuildInfo
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// NewHealthService creates a health service. A nil source is never ready.
func NewHealthService(version string, source DatasetSource, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version: version,
		source:  source,
		started: time.Now(),
		now:     time.Now,
		logger:  logger.With(slog.String("service", "health")),
	}
}

// HealthCheck reports that the process is serving.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{Status: StatusOK, Timestamp: hs.now(), Version: hs.version}
}

// ReadinessCheck is ready once the dataset loads. The load is memoized, so
// probing does not re-read the file.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	data := hs.datasetHealth(ctx)
	status := HealthStatus{
		Status:    data.Status,
		Timestamp: hs.now(),
		Version:   hs.version,
		Dataset:   &data,
	}
	if data.Status != StatusReady {
		hs.logger.DebugContext(ctx, "dataset not ready", slog.String("reason", data.Message))
	}
	return status
}

// LivenessCheck reports process runtime figures.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: hs.now(),
		Version:   hs.version,
		Runtime: &RuntimeHealth{
			UptimeSeconds: hs.now().Sub(hs.started).Seconds(),
			Goroutines:    runtime.NumGoroutine(),
			HeapBytes:     mem.HeapAlloc,
		},
	}
}

// Version describes the running binary.
func (hs *HealthService) Version() VersionInfo {
	info := contracts.Build()
	info.Version = hs.version
	return VersionInfo{
		BuildInfo:     info,
		StartedAt:     hs.started,
		UptimeSeconds: hs.now().Sub(hs.started).Seconds(),
	}
}

func (hs *HealthService) datasetHealth(ctx context.Context) DatasetHealth {
	if hs.source == nil {
		return DatasetHealth{Status: StatusNotReady, Message: "dataset loader not initialized"}
	}

	res, err := hs.source.Load(ctx)
	if err != nil {
		return DatasetHealth{Status: StatusNotReady, Message: err.Error()}
	}

	health := DatasetHealth{Status: StatusReady, Source: res.Source, LoadedAt: res.LoadedAt}
	if res.Table != nil {
		health.Rows = res.Table.Len()
	}
	return health
}
