package booking

import (
	"fmt"
	"strings"
	"time"

	"cabinbooking/internal/domain"
)

// ValidateRequest checks a new booking request against the local snapshot,
// in order: request shape, requester's existing booking, cabin state. The
// result is advisory: another client may write in between.
func ValidateRequest(
	cabinID, requesterID string,
	members []string,
	cabinCapacity int,
	bookings []domain.Booking,
	now time.Time,
) error {
	if err := validateMembers(members, cabinCapacity); err != nil {
		return err
	}
	if requesterID == "" {
		return fmt.Errorf("%w: requester id is required", ErrValidation)
	}

	if MyBooking(requesterID, bookings, now) != nil {
		return ErrAlreadyBooked
	}

	if ResourceStatus(cabinID, bookings, now).State != StateAvailable {
		return ErrCabinUnavailable
	}
	return nil
}

func validateMembers(members []string, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: cabin capacity must be positive", ErrValidation)
	}
	if len(members) != capacity {
		return fmt.Errorf("%w: expected %d group members, got %d", ErrValidation, capacity, len(members))
	}
	for i, m := range members {
		if strings.TrimSpace(m) == "" {
			if i == 0 {
				return fmt.Errorf("%w: host name is required", ErrValidation)
			}
			return fmt.Errorf("%w: group member %d is blank", ErrValidation, i+1)
		}
	}
	return nil
}

// trimMembers returns members with surrounding whitespace removed.
func trimMembers(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}
