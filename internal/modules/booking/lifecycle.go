package booking

import (
	"fmt"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/syncer"
)

// The transitions below are pure: they check the precondition against b and
// return the resulting booking plus the partial write that produces it.
//
//	Pending  -> Approved -> Completed
//	Pending  -> Rejected
//
// Cancel is not a transition; an owner's cancel deletes the record.

func Approve(b domain.Booking, approvedBy string, now time.Time) (domain.Booking, syncer.Fields, error) {
	if b.Status != domain.BookingPending {
		return b, nil, invalid("approve", b)
	}
	start := notBefore(now, b.Timestamp)

	out := b.Clone()
	out.Status = domain.BookingApproved
	out.ApprovedBy = approvedBy
	out.Timestamp = start
	out.CompletionTime = nil

	return out, syncer.Fields{
		syncer.FieldStatus:         string(domain.BookingApproved),
		syncer.FieldApprovedBy:     approvedBy,
		syncer.FieldTimestamp:      start,
		syncer.FieldCompletionTime: nil,
	}, nil
}

func Reject(b domain.Booking) (domain.Booking, syncer.Fields, error) {
	if b.Status != domain.BookingPending {
		return b, nil, invalid("reject", b)
	}
	out := b.Clone()
	out.Status = domain.BookingRejected
	return out, syncer.Fields{
		syncer.FieldStatus: string(domain.BookingRejected),
	}, nil
}

// Complete ends an approved session. A booking that already carries a
// completion time is never completed again.
func Complete(b domain.Booking, now time.Time) (domain.Booking, syncer.Fields, error) {
	if b.Status != domain.BookingApproved || b.CompletionTime != nil {
		return b, nil, invalid("complete", b)
	}
	end := notBefore(now, b.Timestamp)

	out := b.Clone()
	out.Status = domain.BookingCompleted
	out.CompletionTime = &end
	return out, syncer.Fields{
		syncer.FieldStatus:         string(domain.BookingCompleted),
		syncer.FieldCompletionTime: end,
	}, nil
}

// CheckCancel reports whether actor may delete b at now. Approved sessions
// whose window has passed are left for completion.
func CheckCancel(b domain.Booking, actor domain.Actor, now time.Time) error {
	if actor.ID == "" || b.RequesterID != actor.ID {
		return fmt.Errorf("%w: only the requester can cancel booking %s", ErrForbidden, b.ID)
	}
	switch {
	case b.Status == domain.BookingPending:
		return nil
	case b.Status == domain.BookingApproved && b.IsActive(now):
		return nil
	default:
		return invalid("cancel", b)
	}
}

func invalid(op string, b domain.Booking) error {
	return fmt.Errorf("%w: cannot %s booking %s in status %s", ErrInvalidTransition, op, b.ID, b.Status)
}

// notBefore keeps record times monotonic under clock skew between clients.
func notBefore(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
