package domain

import "time"

// Snapshot is the full booking set as of one push from the store. It is
// built once and never mutated; readers get copies.
type Snapshot struct {
	bookings []Booking
	syncedAt time.Time
}

func NewSnapshot(bookings []Booking, syncedAt time.Time) Snapshot {
	own := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		own = append(own, b.Clone())
	}
	return Snapshot{bookings: own, syncedAt: syncedAt}
}

// Bookings returns a copy of the booking set in store delivery order.
func (s Snapshot) Bookings() []Booking {
	out := make([]Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b.Clone())
	}
	return out
}

func (s Snapshot) Len() int { return len(s.bookings) }

func (s Snapshot) SyncedAt() time.Time { return s.syncedAt }

// Find returns a copy of the booking with the given id.
func (s Snapshot) Find(id string) (Booking, bool) {
	for _, b := range s.bookings {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return Booking{}, false
}
