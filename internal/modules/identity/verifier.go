package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/jwt"
)

// JWTVerifier accepts session tokens issued by Login and Register.
type JWTVerifier struct {
	tokens tokenService
}

func NewJWTVerifier(tokens tokenService) *JWTVerifier {
	return &JWTVerifier{tokens: tokens}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*VerifiedIdentity, error) {
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired session token", domain.ErrUnauthenticated)
	}
	return &VerifiedIdentity{Email: claims.Email}, nil
}

type firebaseTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens from the browser client.
type FirebaseVerifier struct {
	client firebaseTokenVerifier
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*VerifiedIdentity, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired firebase token", domain.ErrUnauthenticated)
	}

	email := domain.NormalizeEmail(stringClaim(t, "email"))
	if email == "" {
		return nil, fmt.Errorf("%w: firebase token carries no email", domain.ErrUnauthenticated)
	}
	if verified, _ := t.Claims["email_verified"].(bool); !verified {
		return nil, fmt.Errorf("%w: firebase email %s is not verified", domain.ErrUnauthenticated, email)
	}

	return &VerifiedIdentity{Email: email, Name: stringClaim(t, "name"), External: true}, nil
}

func stringClaim(t *auth.Token, key string) string {
	v, _ := t.Claims[key].(string)
	return v
}

// ChainVerifier tries each verifier in order and returns the first success.
type ChainVerifier []SessionVerifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (*VerifiedIdentity, error) {
	err := error(fmt.Errorf("%w: no session verifier configured", domain.ErrUnauthenticated))
	for _, v := range c {
		id, verr := v.Verify(ctx, token)
		if verr == nil {
			return id, nil
		}
		if !errors.Is(verr, domain.ErrUnauthenticated) {
			return nil, verr
		}
		err = verr
	}
	return nil, err
}

var _ tokenService = (*jwt.Service)(nil)
