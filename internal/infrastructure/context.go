package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	requestIDKey
)

// NewRequestID returns a random UUID v4.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores the request ID that log records are tagged with.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTraceID stores the OpenTelemetry trace ID that log records are tagged with.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// GetTraceID returns the trace ID stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// Correlation returns the best identifier for tying a response to its log
// lines: the trace ID when tracing is on, else the request ID.
func Correlation(ctx context.Context) string {
	if id := GetTraceID(ctx); id != "" {
		return id
	}
	return RequestID(ctx)
}
