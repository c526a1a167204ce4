package booking

import (
	"time"

	"cabinbooking/internal/domain"
)

type CabinState string

const (
	StateAvailable       CabinState = "Available"
	StatePendingApproval CabinState = "Pending Approval"
	StateOccupied        CabinState = "Occupied"
)

// CabinStatus is the derived occupancy of one cabin at one instant.
type CabinStatus struct {
	State     CabinState `json:"status"`
	HostName  string     `json:"host_name,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	BookingID string     `json:"booking_id,omitempty"`
}

// ResourceStatus derives a cabin's state from the booking set. An active
// approved booking wins over a pending one. When the data holds more than
// one candidate, the earliest timestamp is chosen.
func ResourceStatus(cabinID string, bookings []domain.Booking, now time.Time) CabinStatus {
	active := earliest(bookings, func(b domain.Booking) bool {
		return b.CabinID == cabinID && b.IsActive(now)
	})
	if active != nil {
		end := active.EndTime()
		return CabinStatus{
			State:     StateOccupied,
			HostName:  active.RequesterName,
			EndTime:   &end,
			BookingID: active.ID,
		}
	}

	pending := earliest(bookings, func(b domain.Booking) bool {
		return b.CabinID == cabinID && b.Status == domain.BookingPending
	})
	if pending != nil {
		return CabinStatus{
			State:     StatePendingApproval,
			HostName:  pending.RequesterName,
			BookingID: pending.ID,
		}
	}

	return CabinStatus{State: StateAvailable}
}

// MyBooking returns the requester's active approved booking, else their
// pending booking, else nil.
func MyBooking(requesterID string, bookings []domain.Booking, now time.Time) *domain.Booking {
	if requesterID == "" {
		return nil
	}
	if b := earliest(bookings, func(b domain.Booking) bool {
		return b.RequesterID == requesterID && b.IsActive(now)
	}); b != nil {
		return b
	}
	return earliest(bookings, func(b domain.Booking) bool {
		return b.RequesterID == requesterID && b.Status == domain.BookingPending
	})
}

func earliest(bookings []domain.Booking, match func(domain.Booking) bool) *domain.Booking {
	var best *domain.Booking
	for i := range bookings {
		b := bookings[i]
		if !match(b) {
			continue
		}
		if best == nil || before(b, *best) {
			c := b.Clone()
			best = &c
		}
	}
	return best
}

func before(a, b domain.Booking) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}
