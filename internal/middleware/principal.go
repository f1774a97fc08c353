package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/response"
)

const (
	principalKey     = "principal"
	AdminTokenHeader = "x-admin-token"
)

type PrincipalResolver interface {
	Resolve(ctx context.Context, cred domain.Credential) (domain.Principal, error)
}

// ResolvePrincipal stores the caller's Principal in the context. Requests
// without credentials continue as guests; invalid credentials are rejected.
func ResolvePrincipal(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := CredentialFrom(c)
		if cred.Empty() {
			SetPrincipal(c, domain.Guest())
			c.Next()
			return
		}

		p, err := resolver.Resolve(c.Request.Context(), cred)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		SetPrincipal(c, p)
		c.Next()
	}
}

func CredentialFrom(c *gin.Context) domain.Credential {
	cred := domain.Credential{AdminToken: strings.TrimSpace(c.GetHeader(AdminTokenHeader))}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		cred.BearerToken = strings.TrimSpace(parts[1])
	}
	return cred
}

func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the resolved Principal, or a guest.
func CurrentPrincipal(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Guest()
}
