package events

import (
	"context"
	"errors"
	"io"

	"cabinbooking/internal/domain"
)

// Publisher receives booking lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Fanout delivers each event to every publisher in order. One failing
// publisher does not stop the rest.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event domain.BookingEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher that holds resources.
func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
