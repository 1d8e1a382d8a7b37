// Package authz decides whether an authenticated identity may perform an
// operation. Policies are pure functions: callers fetch the resource first
// and pass its owner in, so a missing resource is reported as not found
// before any permission check runs.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// ErrForbidden is returned when an identity lacks permission for an operation.
var ErrForbidden = errors.New("forbidden")

// Identity is the authenticated caller, derived from a verified bearer token.
// It lives only for one request.
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

// RequireRole permits id only when its role is one of roles.
func RequireRole(id Identity, roles ...domain.Role) error {
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s not permitted", ErrForbidden, id.Role)
}

// RequireOwnerOrAdmin permits id when it owns the resource or is an administrator.
func RequireOwnerOrAdmin(id Identity, ownerID uuid.UUID) error {
	if id.IsAdmin() || (id.UserID != uuid.Nil && id.UserID == ownerID) {
		return nil
	}
	return fmt.Errorf("%w: not the resource owner", ErrForbidden)
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
