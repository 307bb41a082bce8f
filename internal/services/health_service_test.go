package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"esgdash/internal/dataset"
	"esgdash/internal/shared/testutil"
)

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		source     func() DatasetSource
		wantStatus string
	}{
		{
			name: "dataset loaded",
			source: func() DatasetSource {
				src := &mockSource{}
				src.On("Load", mock.Anything).Return(&dataset.LoadResult{Source: "sp500esg.csv", LoadedAt: time.Now()}, nil)
				return src
			},
			wantStatus: "ready",
		},
		{
			name: "no dataset",
			source: func() DatasetSource {
				src := &mockSource{}
				src.On("Load", mock.Anything).Return(&dataset.LoadResult{}, ErrNoDataset)
				return src
			},
			wantStatus: "not_ready",
		},
		{
			name:       "no loader",
			source:     func() DatasetSource { return nil },
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.0.0", tt.source(), logger)

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			require.NotNil(t, status.Dataset)
			assert.Equal(t, tt.wantStatus, status.Dataset.Status)
		})
	}
}

func TestHealthService_Liveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.0.0", nil, logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.0.0", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	require.NotNil(t, live.Runtime)
	assert.Positive(t, live.Runtime.Goroutines)

	version := hs.Version()
	assert.Equal(t, "1.0.0", version.Version)
	assert.Equal(t, "v1", version.APIVersion)
	assert.NotEmpty(t, version.Platform)
}
