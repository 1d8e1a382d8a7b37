package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
)

// RequestLoggerOptions configures NewRequestLogger.
type RequestLoggerOptions struct {
	// LogHealthChecks enables logging for requests to HealthPaths.
	LogHealthChecks bool
	HealthPaths     []string
}

// NewRequestLogger returns middleware that logs one line per request after
// the response is written: method, path, status, duration, client ip and
// the authenticated user when there is one.
func NewRequestLogger(opts RequestLoggerOptions) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opts.HealthPaths))
	if !opts.LogHealthChecks {
		for _, p := range opts.HealthPaths {
			skip[p] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx, info := shared.WithRequestInfo(r.Context())
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("ip", r.RemoteAddr),
				slog.Int("bytes", ww.BytesWritten()),
			}
			if info.UserID != "" {
				attrs = append(attrs, slog.String("user_id", info.UserID))
			}

			logger.FromContextOrDefault(r.Context(), slog.Default()).
				LogAttrs(r.Context(), slog.LevelInfo, "HTTP request", attrs...)
		})
	}
}
