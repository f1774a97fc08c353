package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	AudienceSession = "session"
	AudienceAdmin   = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret   []byte
	ttl      time.Duration
	audience string
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwtlib.RegisteredClaims
}

// New returns a signer whose tokens are only accepted for the given audience,
// so a session token can never pass as an admin token.
func New(secret string, ttl time.Duration, audience string) *Service {
	return &Service{
		secret:   []byte(secret),
		ttl:      ttl,
		audience: audience,
	}
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) GenerateToken(email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   email,
			Audience:  jwtlib.ClaimStrings{s.audience},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithAudience(s.audience),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
