package notification

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.GetNotifications)
		g.PATCH("/:id/read", h.MarkAsRead)
		g.PATCH("/read-all", h.MarkAllAsRead)
	}
}

// GetNotifications lists the caller's notices, newest first.
// @Summary		Get notifications
// @Tags		Notifications
// @Security	BearerAuth
// @Param		limit	query	int	false	"Maximum number of notices (default 20, max 100)"
// @Success		200	{object}		map[string]interface{} "Notices and unread count"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Router		/notifications [GET]
func (h *Handler) GetNotifications(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = min(v, 100)
		}
	}

	list, unread := h.service.GetUserNotifications(actor.ID, limit)
	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

// MarkAsRead marks one of the caller's notices as read.
// @Summary		Mark notification read
// @Tags		Notifications
// @Security	BearerAuth
// @Param		id	path	string	true	"Notification ID"
// @Success		200	{object}		map[string]interface{} "Marked"
// @Failure		404	{object}		map[string]interface{} "Notification not found"
// @Router		/notifications/:id/read [PATCH]
func (h *Handler) MarkAsRead(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	if err := h.service.MarkAsRead(c.Param("id"), actor.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "read"})
}

// MarkAllAsRead marks every notice of the caller as read.
// @Summary		Mark all notifications read
// @Tags		Notifications
// @Security	BearerAuth
// @Success		200	{object}		map[string]interface{} "Marked"
// @Router		/notifications/read-all [PATCH]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	h.service.MarkAllAsRead(actor.ID)
	response.Success(c, http.StatusOK, gin.H{"status": "all_read"})
}
