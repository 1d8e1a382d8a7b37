package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	user := Identity{UserID: uuid.New(), Role: domain.RoleUser}
	admin := Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	assert.NoError(t, RequireRole(admin, domain.RoleAdmin))
	assert.NoError(t, RequireRole(user, domain.RoleUser, domain.RoleAdmin))
	assert.ErrorIs(t, RequireRole(user, domain.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, RequireRole(admin), ErrForbidden, "empty role set permits nobody")
	assert.ErrorIs(t, RequireRole(Identity{}, domain.RoleUser), ErrForbidden)
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name    string
		id      Identity
		owner   uuid.UUID
		allowed bool
	}{
		{"owner", Identity{UserID: ownerID, Role: domain.RoleUser}, ownerID, true},
		{"other user", Identity{UserID: uuid.New(), Role: domain.RoleUser}, ownerID, false},
		{"admin on foreign resource", Identity{UserID: uuid.New(), Role: domain.RoleAdmin}, ownerID, true},
		{"zero identity on ownerless resource", Identity{}, uuid.Nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RequireOwnerOrAdmin(tt.id, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, got.IsAdmin())
}
