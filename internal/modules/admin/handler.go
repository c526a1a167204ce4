package admin

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"cabinbooking/internal/middleware"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	dispatcher *Dispatcher
	lifecycle  Lifecycle
	now        func() time.Time
}

func NewHandler(lifecycle Lifecycle) *Handler {
	return &Handler{
		dispatcher: NewDispatcher(lifecycle),
		lifecycle:  lifecycle,
		now:        time.Now,
	}
}

// RegisterRoutes expects a group already guarded by JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/queue", h.GetQueue)
	admin.POST("/bookings/:id/:action", h.ApplyAction)
	admin.GET("/export", h.Export)
}

// GetQueue lists bookings awaiting admin attention.
// @Summary		Get approval queue
// @Description	Returns Pending bookings first, then Approved ones, each ordered by timestamp. Admins only.
// @Tags		Admin - Bookings
// @Security	BearerAuth
// @Success		200	{object}		map[string]interface{} "Queue and total"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Failure		403	{object}		map[string]interface{} "Admin role required"
// @Router		/admin/queue [GET]
func (h *Handler) GetQueue(c *gin.Context) {
	queue := h.dispatcher.Queue()
	response.Success(c, http.StatusOK, gin.H{
		"bookings": queue,
		"total":    len(queue),
	})
}

// ApplyAction approves, rejects or completes a booking.
// @Summary		Apply admin action
// @Description	approve restarts the session clock and records the approving admin. reject closes a pending request. complete ends an approved session.
// @Tags		Admin - Bookings
// @Security	BearerAuth
// @Param		id		path	string	true	"Booking ID"
// @Param		action	path	string	true	"approve | reject | complete"
// @Success		200	{object}		map[string]interface{} "Updated booking"
// @Failure		400	{object}		map[string]interface{} "Unknown action"
// @Failure		403	{object}		map[string]interface{} "Admin role required"
// @Failure		404	{object}		map[string]interface{} "Booking not found"
// @Failure		409	{object}		map[string]interface{} "Transition not allowed from the current status"
// @Failure		502	{object}		map[string]interface{} "Store write failed"
// @Router		/admin/bookings/:id/:action [POST]
func (h *Handler) ApplyAction(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	action, err := ParseAction(c.Param("action"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", err.Error())
		return
	}

	b, err := h.dispatcher.Dispatch(c.Request.Context(), c.Param("id"), action, actor)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", err.Error())
			return
		}
		booking.RespondError(c, err, "Failed to apply admin action")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b, "action": action})
}

// Export downloads every booking as CSV. The body is rendered in full before
// any header is written so an empty set can still answer with JSON.
// @Summary		Export bookings
// @Description	Streams all parseable bookings as bookings-export-<date>.csv. Requester and GroupMembers are always quoted.
// @Tags		Admin - Bookings
// @Security	BearerAuth
// @Produce	text/csv
// @Success		200	{file}		file "CSV export"
// @Failure		403	{object}		map[string]interface{} "Admin role required"
// @Failure		404	{object}		map[string]interface{} "No data to export"
// @Router		/admin/export [GET]
func (h *Handler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.lifecycle.Export(&buf); err != nil {
		booking.RespondError(c, err, "Failed to export bookings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+booking.ExportFilename(h.now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
