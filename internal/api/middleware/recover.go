package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/redact"
)

// MsgInternalError is returned to clients for unhandled failures.
const MsgInternalError = "Internal server error"

// Recoverer turns a panic in a downstream handler into a 500 envelope and
// logs the panic value with its stack. http.ErrAbortHandler is re-raised so
// the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContextOrDefault(r.Context(), slog.Default()).Error("panic recovered",
				"panic", redact.String(fmt.Sprint(rec)),
				"path", r.URL.Path,
				"method", r.Method,
				"stack", string(debug.Stack()))

			shared.RespondWithError(w, r, http.StatusInternalServerError, MsgInternalError)
		}()

		next.ServeHTTP(w, r)
	})
}
