package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for values this package stores in a request context.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	requestInfoKey ContextKey = "requestInfo"

	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-Id"

	// MaxTraceIDLength bounds client-supplied request ids.
	MaxTraceIDLength = 128
)

// NewTraceID returns a fresh random correlation id.
func NewTraceID() string {
	return uuid.NewString()
}

// ValidTraceID reports whether a client-supplied request id can be reused
// as-is: non-empty, bounded, and limited to visible ASCII so it is safe to
// echo in headers and logs.
func ValidTraceID(id string) bool {
	if id == "" || len(id) > MaxTraceIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// SetTraceID adds traceID to the context, generating one when it is empty.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// RequestInfo collects per-request facts discovered by inner handlers that
// the outer request logger reports once the response is written.
type RequestInfo struct {
	UserID string
}

// WithRequestInfo attaches an empty RequestInfo to ctx.
func WithRequestInfo(ctx context.Context) (context.Context, *RequestInfo) {
	info := &RequestInfo{}
	return context.WithValue(ctx, requestInfoKey, info), info
}

// RecordUserID stores the authenticated user on the request's RequestInfo, if any.
func RecordUserID(ctx context.Context, userID uuid.UUID) {
	if info, ok := ctx.Value(requestInfoKey).(*RequestInfo); ok {
		info.UserID = userID.String()
	}
}
