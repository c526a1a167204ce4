package domain

import "time"

type NotificationType string

const (
	NotifBookingApproved NotificationType = "booking_approved"
	NotifBookingRejected NotificationType = "booking_rejected"
	NotifSessionEnded    NotificationType = "session_ended"
	NotifSessionExpired  NotificationType = "session_expired"
)

// Notification is an in-app message for one member about one of their
// bookings.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	BookingID string           `json:"booking_id"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
