package auth

import "time"

// UserStats counts the caller's bookings by status.
type UserStats struct {
	TotalBookings     int `json:"total_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	ApprovedBookings  int `json:"approved_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	RejectedBookings  int `json:"rejected_bookings"`
}

// RecentBooking is a short summary for the profile view.
type RecentBooking struct {
	ID      string    `json:"id"`
	CabinID string    `json:"cabin_id"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
}

type UserProfileResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Role           string          `json:"role"`
	Stats          *UserStats      `json:"stats,omitempty"`
	RecentBookings []RecentBooking `json:"recent_bookings,omitempty"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}
