package middleware

import (
	"net/http"
	"strings"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/pkg/jwt"
	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// JWTAuth validates the bearer session token and stores the caller's
// identity under user_id, role, name and actor.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		actor := domain.Actor{ID: claims.UserID, Name: claims.Name, Role: domain.RoleMember}
		if claims.Role == string(domain.RoleAdmin) {
			actor.Role = domain.RoleAdmin
		}

		c.Set("user_id", actor.ID)
		c.Set("role", string(actor.Role))
		c.Set("name", actor.Name)
		c.Set(actorKey, actor)
		c.Next()
	}
}

// CurrentActor returns the identity JWTAuth attached to the request.
func CurrentActor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok && actor.ID != ""
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	// Browsers cannot set headers on a websocket upgrade.
	return c.Query("token")
}
