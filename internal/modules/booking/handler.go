package booking

import (
	"errors"
	"net/http"
	"strconv"

	"cabinbooking/internal/middleware"
	"cabinbooking/internal/pkg/response"
	"cabinbooking/internal/pkg/validator"
	"cabinbooking/internal/syncer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cabins", h.ListCabins)
	rg.GET("/bookings/me", h.GetMyBooking)
	rg.POST("/bookings", h.CreateBooking)
	rg.DELETE("/bookings/:id", h.CancelBooking)
	rg.POST("/bookings/:id/checkout", h.CheckOut)
}

// ListCabins lists catalog cabins with their live availability.
// @Summary		List cabins
// @Description	Returns every cabin, optionally filtered by group size, with its derived state (available, pending approval or occupied). Sets X-Data-Degraded when the booking sync is failing.
// @Tags		Bookings
// @Security	BearerAuth
// @Param		capacity	query	int	false	"Only cabins of this capacity (0 or empty for all)"
// @Success		200	{object}		CabinStatusResponse "Cabins with state"
// @Failure		400	{object}		map[string]interface{} "capacity is not a non-negative integer"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Router		/cabins [GET]
func (h *Handler) ListCabins(c *gin.Context) {
	capacity := 0
	if raw := c.Query("capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "capacity must be a non-negative integer")
			return
		}
		capacity = n
	}

	degraded := MarkDegraded(c, h.service)
	response.Success(c, http.StatusOK, CabinStatusResponse{
		Cabins:   h.service.CabinStatuses(capacity),
		Degraded: degraded,
	})
}

// GetMyBooking returns the caller's open booking with its countdown.
// @Summary		Get my booking
// @Description	Returns the caller's pending or active booking, or null. Active sessions carry an HH:MM:SS countdown and a critical flag.
// @Tags		Bookings
// @Security	BearerAuth
// @Success		200	{object}		map[string]interface{} "Open booking or null"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Router		/bookings/me [GET]
func (h *Handler) GetMyBooking(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	MarkDegraded(c, h.service)
	response.Success(c, http.StatusOK, gin.H{"booking": h.service.MyBooking(actor.ID)})
}

// CreateBooking submits a pending booking request for a cabin.
// @Summary		Request a cabin
// @Description	Creates a Pending booking owned by the caller. The group must fill the cabin exactly, the caller must have no other open booking and the cabin must be free.
// @Tags		Bookings
// @Security	BearerAuth
// @Param		request	body	CreateBookingRequest	true	"Cabin and group member names (first name is the requester)"
// @Success		201	{object}		map[string]interface{} "Created booking"
// @Failure		400	{object}		map[string]interface{} "Validation error or unknown cabin"
// @Failure		401	{object}		map[string]interface{} "Authentication required"
// @Failure		409	{object}		map[string]interface{} "Caller already booked or cabin unavailable"
// @Failure		502	{object}		map[string]interface{} "Store write failed"
// @Router		/bookings [POST]
func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request", fieldErrors)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req, actor)
	if err != nil {
		RespondError(c, err, "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

// CancelBooking deletes the caller's pending or active booking.
// @Summary		Cancel booking
// @Description	Removes the record. Only the requester may cancel, and only while the booking is Pending or an Approved session that has not ended.
// @Tags		Bookings
// @Security	BearerAuth
// @Param		id	path	string	true	"Booking ID"
// @Success		200	{object}		map[string]interface{} "Booking deleted"
// @Failure		403	{object}		map[string]interface{} "Not the requester"
// @Failure		404	{object}		map[string]interface{} "Booking not found"
// @Failure		409	{object}		map[string]interface{} "Booking is closed or its session has ended"
// @Router		/bookings/:id [DELETE]
func (h *Handler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), actor); err != nil {
		RespondError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// CheckOut ends the caller's approved session early.
// @Summary		Check out
// @Description	Marks an Approved session Completed and records the completion time. The record is kept for history.
// @Tags		Bookings
// @Security	BearerAuth
// @Param		id	path	string	true	"Booking ID"
// @Success		200	{object}		map[string]interface{} "Completed booking"
// @Failure		403	{object}		map[string]interface{} "Not the requester"
// @Failure		404	{object}		map[string]interface{} "Booking not found"
// @Failure		409	{object}		map[string]interface{} "Not approved, already completed or completion in flight"
// @Router		/bookings/:id/checkout [POST]
func (h *Handler) CheckOut(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	b, err := h.service.Complete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		RespondError(c, err, "Failed to check out")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// MarkDegraded flags the response when the snapshot is stale because the
// store subscription is failing.
func MarkDegraded(c *gin.Context, s *Service) bool {
	if s.SyncErr() != nil {
		c.Header("X-Data-Degraded", "true")
		return true
	}
	return false
}

// RespondError maps a booking error onto the JSON error envelope.
func RespondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNothingToExport):
		response.Error(c, http.StatusNotFound, "NOTHING_TO_EXPORT", "No data to export")
	case errors.Is(err, syncer.ErrWrite):
		response.Error(c, http.StatusBadGateway, "WRITE_FAILED", "The write did not apply; try again")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
