package auth

import (
	"net/http"

	"cabinbooking/internal/middleware"
	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes expects a group guarded by JWTAuth.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
	protected.POST("/auth/refresh", h.Refresh)
}

// GetMe returns the caller's identity.
// @Summary		Get current user
// @Description	Returns the identity carried by the token. With include_stats=true it adds booking counts by status and the three most recent bookings.
// @Tags		Authentication
// @Security	BearerAuth
// @Param		include_stats	query	bool	false	"Include booking statistics"
// @Success		200	{object}		UserProfileResponse "Profile"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	includeStats := c.Query("include_stats") == "true"
	response.Success(c, http.StatusOK, gin.H{
		"user": h.service.Profile(actor, includeStats),
	})
}

// Refresh issues a new token for the caller.
// @Summary		Refresh token
// @Tags		Authentication
// @Security	BearerAuth
// @Success		200	{object}		RefreshResponse "New token"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Failure		500	{object}		map[string]interface{} "Token signing failed"
// @Router		/auth/refresh [POST]
func (h *Handler) Refresh(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	token, err := h.service.Refresh(actor)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refresh session")
		return
	}
	response.Success(c, http.StatusOK, RefreshResponse{Token: token})
}
