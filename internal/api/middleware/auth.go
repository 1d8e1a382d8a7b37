package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/service/authz"
)

// Client-facing authentication and authorization messages.
const (
	MsgAuthHeaderRequired   = "Authorization header required"
	MsgInvalidAuthFormat    = "Invalid authorization format"
	MsgInvalidToken         = "Invalid or expired token"
	MsgAuthenticationNeeded = "Authentication required"
	MsgForbidden            = "Forbidden: insufficient permissions"
)

// AuthMiddleware provides JWT authentication and role checks for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// attaches the caller's authz.Identity to the request context. It performs no
// database lookup: the role is taken from the token as issued.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgAuthHeaderRequired, nil)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsRune(token, ' ') {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidAuthFormat, nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// Expired, forged and malformed tokens get the same answer.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidToken, err)
			return
		}

		id := authz.Identity{UserID: claims.UserID, Role: claims.Role}
		ctx := authz.WithIdentity(r.Context(), id)
		ctx = logger.WithLogger(ctx,
			logger.FromContextOrDefault(ctx, slog.Default()).With("user_id", id.UserID.String()))
		shared.RecordUserID(ctx, id.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose identity holds none of roles with 403.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := authz.IdentityFromContext(r.Context())
			if !ok {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgAuthenticationNeeded, nil)
				return
			}

			if err := authz.RequireRole(id, roles...); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MsgForbidden, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
