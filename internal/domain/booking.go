package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingApproved  BookingStatus = "Approved"
	BookingRejected  BookingStatus = "Rejected"
	BookingCompleted BookingStatus = "Completed"
)

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted:
		return true
	default:
		return false
	}
}

// Booking is one group's request for, or use of, a cabin.
//
// Timestamp holds the submission time while the booking is pending and is
// reset to the approval time on approval; the session window is measured
// from it.
type Booking struct {
	ID             string        `json:"id"`
	CabinID        string        `json:"cabin_id"`
	Capacity       int           `json:"capacity"`
	RequesterName  string        `json:"requester_name"`
	RequesterID    string        `json:"requester_id"`
	GroupMembers   []string      `json:"group_members"`
	Timestamp      time.Time     `json:"timestamp"`
	DurationHours  int           `json:"duration_hours"`
	Status         BookingStatus `json:"status"`
	ApprovedBy     string        `json:"approved_by,omitempty"`
	CompletionTime *time.Time    `json:"completion_time,omitempty"`
}

// Duration is the fixed session length.
func (b Booking) Duration() time.Duration {
	return time.Duration(b.DurationHours) * time.Hour
}

// EndTime is when the session window elapses.
func (b Booking) EndTime() time.Time {
	return b.Timestamp.Add(b.Duration())
}

// IsActive reports whether b is approved, not completed and still inside its
// session window at now.
func (b Booking) IsActive(now time.Time) bool {
	return b.Status == BookingApproved && b.CompletionTime == nil && b.EndTime().After(now)
}

// IsExpired reports whether b is approved and uncompleted but its window
// has elapsed at now.
func (b Booking) IsExpired(now time.Time) bool {
	return b.Status == BookingApproved && b.CompletionTime == nil && !now.Before(b.EndTime())
}

// Clone returns a deep copy of b.
func (b Booking) Clone() Booking {
	out := b
	if b.GroupMembers != nil {
		out.GroupMembers = append([]string(nil), b.GroupMembers...)
	}
	if b.CompletionTime != nil {
		t := *b.CompletionTime
		out.CompletionTime = &t
	}
	return out
}
