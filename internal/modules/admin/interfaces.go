package admin

import (
	"context"
	"io"

	"cabinbooking/internal/domain"
)

// Lifecycle is the subset of the booking service admin actions drive.
type Lifecycle interface {
	Approve(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error)
	Reject(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error)
	Complete(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error)
	Queue() []domain.Booking
	Export(w io.Writer) error
}
