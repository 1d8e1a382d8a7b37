package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
)

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, "OK", nil)
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, fmt.Sprintf("Route not found: %s", r.URL.RequestURI()))
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed,
		fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
}
