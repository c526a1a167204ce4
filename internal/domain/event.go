package domain

import "time"

type BookingEventType string

const (
	EventBookingRequested BookingEventType = "booking.requested"
	EventBookingApproved  BookingEventType = "booking.approved"
	EventBookingRejected  BookingEventType = "booking.rejected"
	EventBookingCompleted BookingEventType = "booking.completed"
	EventBookingCancelled BookingEventType = "booking.cancelled"
)

type BookingEvent struct {
	Type        BookingEventType `json:"type"`
	BookingID   string           `json:"booking_id"`
	CabinID     string           `json:"cabin_id"`
	RequesterID string           `json:"requester_id"`
	ActorID     string           `json:"actor_id"`
	Status      BookingStatus    `json:"status"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

func NewBookingEvent(t BookingEventType, b Booking, actor Actor, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        t,
		BookingID:   b.ID,
		CabinID:     b.CabinID,
		RequesterID: b.RequesterID,
		ActorID:     actor.ID,
		Status:      b.Status,
		OccurredAt:  at,
	}
}
