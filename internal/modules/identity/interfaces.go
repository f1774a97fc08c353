package identity

import (
	"context"
	"time"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/jwt"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VerifiedIdentity is what a SessionVerifier learned from a bearer token.
type VerifiedIdentity struct {
	Email string
	Name  string
	// External identities come from an outside provider and may be
	// provisioned on first sight.
	External bool
}

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*VerifiedIdentity, error)
}

type tokenService interface {
	GenerateToken(email, role string) (string, error)
	ValidateToken(tokenStr string) (*jwt.Claims, error)
	TTL() time.Duration
}
