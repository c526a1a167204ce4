package booking

import (
	"context"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/syncer"
)

// SnapshotSource exposes the last synced booking set.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// Writer issues record writes to the store.
type Writer interface {
	Create(ctx context.Context, fields syncer.Fields) (string, error)
	Update(ctx context.Context, id string, fields syncer.Fields) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher announces lifecycle changes. Failures never undo a write.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// DisplayNamer maps an acting principal to the name recorded in approvedBy.
type DisplayNamer func(actor domain.Actor) string
