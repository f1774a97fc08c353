package middleware

import (
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/response"
)

// RequirePrincipal rejects guests.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentPrincipal(c).IsGuest() {
			response.AbortWithError(c, fmt.Errorf("%w: authentication required", domain.ErrUnauthenticated))
			return
		}
		c.Next()
	}
}

// RequireRole ensures that the authenticated principal has one of the roles
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p.IsGuest() {
			response.AbortWithError(c, fmt.Errorf("%w: authentication required", domain.ErrUnauthenticated))
			return
		}
		if !slices.Contains(roles, p.Role) {
			response.AbortWithError(c, fmt.Errorf("%w: insufficient permissions", domain.ErrForbidden))
			return
		}
		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
