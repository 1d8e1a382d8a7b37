package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that assigns each request a
// correlation id. A well-formed incoming X-Request-Id is reused, otherwise a
// new id is generated. The id is echoed on the response and bound to a
// request-scoped logger derived from base.
// This middleware should be applied first so every later handler sees the id.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(shared.RequestIDHeader)
			if !shared.ValidTraceID(traceID) {
				traceID = shared.NewTraceID()
			}

			ctx := shared.SetTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, base.With(slog.String("trace_id", traceID)))
			w.Header().Set(shared.RequestIDHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
