package util

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type requestIDContextKey struct{}

// RequestIDHeader is set on every outgoing gateway request so client logs can
// be correlated with backend logs.
const RequestIDHeader = "X-Request-Id"

// NewRequestID returns a fresh request id for an outgoing call.
func NewRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores a request id in the context and injects a child
// logger carrying "request_id" so downstream code can call
// util.LoggerFromContext(ctx) and get correlated log lines.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		requestID = NewRequestID()
	}
	ctx = context.WithValue(ctx, requestIDContextKey{}, requestID)
	logger := slog.Default().With("request_id", requestID)
	return ContextWithLogger(ctx, logger)
}

// RequestIDFromContext returns the request id from context, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
