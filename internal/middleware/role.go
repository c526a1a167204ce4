package middleware

import (
	"net/http"
	"slices"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole admits actors holding any of roles. It must run after JWTAuth.
func RequireRole(roles ...domain.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		if !slices.Contains(roles, actor.Role) {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
