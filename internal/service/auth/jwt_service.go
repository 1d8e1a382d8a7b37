package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// JWTService defines operations for issuing and verifying bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token binding userID (as subject) and role.
	// Returns the token and its expiry time.
	GenerateToken(ctx context.Context, userID uuid.UUID, role domain.Role) (string, time.Time, error)

	// ValidateToken verifies signature and expiry and extracts the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for
	// every other failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports how long issued tokens stay valid.
	TokenLifetime() time.Duration
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID uuid.UUID

	// Role is the role the subject held at issuance.
	Role domain.Role

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
