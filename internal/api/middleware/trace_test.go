package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"reuses incoming id", "client-req-42", true},
		{"generates when missing", "", false},
		{"replaces malformed id", "bad id\twith spaces", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = shared.GetTraceID(r.Context())
				logger.FromContext(r.Context()).Info("handled")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(shared.RequestIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()

			middleware.NewTraceMiddleware(log)(next).ServeHTTP(rr, req)

			assert.Equal(t, seen, rr.Header().Get(shared.RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
			logger.AssertLogContains(t, buf, `"trace_id":"`+seen+`"`)
		})
	}
}
