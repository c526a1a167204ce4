package syncer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cabinbooking/internal/domain"
)

// Adapter owns the local booking snapshot. It normalizes every push from
// the store, replaces the snapshot wholesale and fans it out to listeners.
type Adapter struct {
	store Store
	now   func() time.Time

	mu          sync.RWMutex
	current     domain.Snapshot
	syncErr     error
	listeners   map[int]chan domain.Snapshot
	nextID      int
	unsubscribe func()
	ready       chan struct{}
	readyOnce   sync.Once
}

func NewAdapter(store Store) *Adapter {
	return &Adapter{
		store:     store,
		now:       time.Now,
		listeners: make(map[int]chan domain.Snapshot),
		ready:     make(chan struct{}),
	}
}

// WithClock overrides the clock used to stamp snapshots.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}

// Start subscribes to the store. Snapshots arrive on the store's goroutine.
func (a *Adapter) Start(ctx context.Context) error {
	unsubscribe, err := a.store.Subscribe(ctx, a.handleSnapshot, a.handleError)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSync, err)
	}
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()
	return nil
}

// Stop tears down the store listener and closes every listener channel.
func (a *Adapter) Stop() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	listeners := a.listeners
	a.listeners = make(map[int]chan domain.Snapshot)
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	for _, ch := range listeners {
		close(ch)
	}
}

// Ready is closed once the first snapshot has been applied.
func (a *Adapter) Ready() <-chan struct{} { return a.ready }

// Snapshot returns the last applied snapshot.
func (a *Adapter) Snapshot() domain.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// SyncErr returns the last subscription failure, or nil once a snapshot
// has been received after it.
func (a *Adapter) SyncErr() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.syncErr
}

// Listen returns a channel that always holds the most recent snapshot not
// yet received. Stale snapshots are dropped rather than queued.
func (a *Adapter) Listen() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = ch
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if existing, ok := a.listeners[id]; ok {
			delete(a.listeners, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (a *Adapter) handleSnapshot(records []RawRecord) {
	bookings := make([]domain.Booking, 0, len(records))
	for _, rec := range records {
		b, err := DecodeBooking(rec)
		if err != nil {
			log.Printf("sync_discard_record id=%s error=%q", rec.ID, err.Error())
			continue
		}
		bookings = append(bookings, b)
	}
	snap := domain.NewSnapshot(bookings, a.now())

	a.mu.Lock()
	if a.syncErr != nil {
		log.Printf("sync_recovered bookings=%d", snap.Len())
	}
	a.current = snap
	a.syncErr = nil
	for _, ch := range a.listeners {
		offer(ch, snap)
	}
	a.mu.Unlock()

	a.readyOnce.Do(func() { close(a.ready) })
}

func (a *Adapter) handleError(err error) {
	log.Printf("sync_error error=%q", err.Error())
	a.mu.Lock()
	a.syncErr = fmt.Errorf("%w: %w", ErrSync, err)
	a.mu.Unlock()
}

// offer replaces whatever is buffered in ch with snap.
func offer(ch chan domain.Snapshot, snap domain.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Create writes a new record and returns the store-assigned id.
func (a *Adapter) Create(ctx context.Context, fields Fields) (string, error) {
	id, err := a.store.Create(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("%w: create: %w", ErrWrite, err)
	}
	return id, nil
}

func (a *Adapter) Update(ctx context.Context, id string, fields Fields) error {
	if err := a.store.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("%w: update %s: %w", ErrWrite, id, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrWrite, id, err)
	}
	return nil
}
