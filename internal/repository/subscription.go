package repository

import (
	"context"
	"errors"
	"sync"

	"cabinbooking/internal/syncer"
)

var ErrNotFound = errors.New("record not found")

type listFunc func(ctx context.Context) ([]syncer.RawRecord, error)

// subscribe delivers the full record set now and again after every change
// notification. Deliveries for one subscriber never overlap.
func subscribe(
	ctx context.Context,
	feed ChangeFeed,
	list listFunc,
	onSnapshot func([]syncer.RawRecord),
	onError func(error),
) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	var mu sync.Mutex
	load := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		records, err := list(ctx)
		if err != nil {
			if onError != nil && ctx.Err() == nil {
				onError(err)
			}
			return
		}
		onSnapshot(records)
	}

	stop, err := feed.Listen(ctx, load, onError)
	if err != nil {
		cancel()
		return nil, err
	}
	load()

	return func() {
		cancel()
		stop()
	}, nil
}
