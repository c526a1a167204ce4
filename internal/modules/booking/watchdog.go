package booking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cabinbooking/internal/domain"
)

const DefaultWatchdogInterval = time.Second

// Completer issues the Complete transition.
type Completer interface {
	Complete(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error)
}

// Watchdog completes approved sessions whose window has elapsed. It keeps
// the ids it has issued a completion for until a snapshot shows the change,
// so overlapping ticks never write twice.
type Watchdog struct {
	snapshots SnapshotSource
	completer Completer
	interval  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

func NewWatchdog(snapshots SnapshotSource, completer Completer, interval time.Duration) *Watchdog {
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	return &Watchdog{
		snapshots: snapshots,
		completer: completer,
		interval:  interval,
		now:       time.Now,
		inflight:  make(map[string]struct{}),
	}
}

func (w *Watchdog) WithClock(now func() time.Time) *Watchdog {
	w.now = now
	return w
}

// Run ticks until ctx is done or updates is closed. Each snapshot received
// on updates settles tracked completions.
func (w *Watchdog) Run(ctx context.Context, updates <-chan domain.Snapshot) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer w.wg.Wait()

	log.Printf("Expiry watchdog started with interval %v", w.interval)
	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case snap, ok := <-updates:
			if !ok {
				log.Println("Expiry watchdog stopped (snapshot feed closed)")
				return
			}
			w.Reconcile(snap)
		case <-ctx.Done():
			log.Println("Expiry watchdog stopped (context Done)")
			return
		}
	}
}

// Tick scans the current snapshot and issues one completion per expired
// session not already in flight. It returns how many it issued.
func (w *Watchdog) Tick(ctx context.Context) int {
	snap := w.snapshots.Snapshot()
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	issued := 0
	for _, b := range snap.Bookings() {
		if !b.IsExpired(now) {
			continue
		}
		if _, busy := w.inflight[b.ID]; busy {
			continue
		}
		w.inflight[b.ID] = struct{}{}
		issued++

		w.wg.Add(1)
		go w.complete(ctx, b)
	}
	return issued
}

func (w *Watchdog) complete(ctx context.Context, b domain.Booking) {
	defer w.wg.Done()

	_, err := w.completer.Complete(ctx, b.ID, domain.WatchdogActor)
	switch {
	case err == nil:
		log.Printf("watchdog_expired id=%s cabin=%s overdue=%s", b.ID, b.CabinID, (-Remaining(b, w.now())).Truncate(time.Second))
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotFound):
		log.Printf("watchdog_skip id=%s reason=%q", b.ID, err.Error())
		w.forget(b.ID)
	default:
		log.Printf("watchdog_complete_failed id=%s error=%q", b.ID, err.Error())
		w.forget(b.ID)
	}
}

// Reconcile clears tracked ids that snap no longer shows as open sessions.
func (w *Watchdog) Reconcile(snap domain.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id := range w.inflight {
		b, ok := snap.Find(id)
		if !ok || b.Status != domain.BookingApproved || b.CompletionTime != nil {
			delete(w.inflight, id)
		}
	}
}

// InFlight reports whether a completion for id is being tracked.
func (w *Watchdog) InFlight(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.inflight[id]
	return ok
}

// Wait blocks until every issued completion has returned.
func (w *Watchdog) Wait() { w.wg.Wait() }

func (w *Watchdog) forget(id string) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}
