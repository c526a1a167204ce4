package booking

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/syncer"
)

const DefaultDurationHours = 2

type Config struct {
	DurationHours     int
	CriticalThreshold time.Duration
}

// Service is the booking lifecycle manager. Every check runs against the
// last synced snapshot; writes go to the store and come back through the
// next snapshot.
type Service struct {
	snapshots   SnapshotSource
	writer      Writer
	catalog     *domain.Catalog
	events      EventPublisher
	displayName DisplayNamer
	now         func() time.Time

	durationHours int
	critical      time.Duration

	mu         sync.Mutex
	completing map[string]struct{}
}

func NewService(
	snapshots SnapshotSource,
	writer Writer,
	catalog *domain.Catalog,
	events EventPublisher,
	cfg Config,
) *Service {
	if cfg.DurationHours <= 0 {
		cfg.DurationHours = DefaultDurationHours
	}
	if cfg.CriticalThreshold <= 0 {
		cfg.CriticalThreshold = DefaultCriticalThreshold
	}
	return &Service{
		snapshots:     snapshots,
		writer:        writer,
		catalog:       catalog,
		events:        events,
		displayName:   AdminDisplayName,
		now:           time.Now,
		durationHours: cfg.DurationHours,
		critical:      cfg.CriticalThreshold,
		completing:    make(map[string]struct{}),
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithDisplayNamer(fn DisplayNamer) *Service {
	s.displayName = fn
	return s
}

// AdminDisplayName renders "Admin (<first four characters of the id>)".
func AdminDisplayName(actor domain.Actor) string {
	id := []rune(actor.ID)
	if len(id) > 4 {
		id = id[:4]
	}
	return fmt.Sprintf("Admin (%s)", string(id))
}

func (s *Service) Catalog() *domain.Catalog { return s.catalog }

func (s *Service) CriticalThreshold() time.Duration { return s.critical }

// SyncErr reports a degraded snapshot source, if the source tracks it.
func (s *Service) SyncErr() error {
	if h, ok := s.snapshots.(interface{ SyncErr() error }); ok {
		return h.SyncErr()
	}
	return nil
}

// CreateBooking validates the request against the snapshot and writes a new
// pending booking owned by actor.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest, actor domain.Actor) (*domain.Booking, error) {
	cabin, ok := s.catalog.Get(req.CabinID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCabin, req.CabinID)
	}

	now := s.now()
	bookings := s.snapshots.Snapshot().Bookings()
	if err := ValidateRequest(cabin.ID, actor.ID, req.GroupMembers, cabin.Capacity, bookings, now); err != nil {
		return nil, err
	}

	members := trimMembers(req.GroupMembers)
	b := domain.Booking{
		CabinID:       cabin.ID,
		Capacity:      cabin.Capacity,
		RequesterName: members[0],
		RequesterID:   actor.ID,
		GroupMembers:  members,
		Timestamp:     now,
		DurationHours: s.durationHours,
		Status:        domain.BookingPending,
	}

	id, err := s.writer.Create(ctx, syncer.EncodeBooking(b))
	if err != nil {
		log.Printf("booking_write_failed op=create cabin=%s requester=%s error=%q", cabin.ID, actor.ID, err.Error())
		return nil, err
	}
	b.ID = id

	log.Printf("booking_requested id=%s cabin=%s requester=%s", b.ID, b.CabinID, b.RequesterID)
	s.publish(ctx, domain.EventBookingRequested, b, actor, now)
	return &b, nil
}

func (s *Service) Approve(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: approve requires an admin", ErrForbidden)
	}
	b, err := s.find(bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next, patch, err := Approve(b, s.displayName(actor), now)
	if err != nil {
		return nil, err
	}
	if err := s.update(ctx, "approve", bookingID, patch); err != nil {
		return nil, err
	}

	log.Printf("booking_approved id=%s cabin=%s approved_by=%q", next.ID, next.CabinID, next.ApprovedBy)
	s.publish(ctx, domain.EventBookingApproved, next, actor, now)
	return &next, nil
}

func (s *Service) Reject(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: reject requires an admin", ErrForbidden)
	}
	b, err := s.find(bookingID)
	if err != nil {
		return nil, err
	}

	next, patch, err := Reject(b)
	if err != nil {
		return nil, err
	}
	if err := s.update(ctx, "reject", bookingID, patch); err != nil {
		return nil, err
	}

	log.Printf("booking_rejected id=%s cabin=%s actor=%s", next.ID, next.CabinID, actor.ID)
	s.publish(ctx, domain.EventBookingRejected, next, actor, s.now())
	return &next, nil
}

// Complete ends an approved session on behalf of its owner, an admin or the
// expiry watchdog. While one completion for a booking is in flight, further
// calls fail with ErrInvalidTransition instead of writing again.
func (s *Service) Complete(ctx context.Context, bookingID string, actor domain.Actor) (*domain.Booking, error) {
	snap := s.snapshots.Snapshot()
	b, ok := snap.Find(bookingID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}
	if !actor.IsAdmin() && !actor.IsSystem() && actor.ID != b.RequesterID {
		return nil, fmt.Errorf("%w: only the requester or an admin can complete booking %s", ErrForbidden, bookingID)
	}

	now := s.now()
	s.mu.Lock()
	s.settle(snap)
	if _, busy := s.completing[bookingID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: completion of booking %s already in flight", ErrInvalidTransition, bookingID)
	}
	next, patch, err := Complete(b, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.completing[bookingID] = struct{}{}
	s.mu.Unlock()

	if err := s.update(ctx, "complete", bookingID, patch); err != nil {
		s.mu.Lock()
		delete(s.completing, bookingID)
		s.mu.Unlock()
		return nil, err
	}

	log.Printf("booking_completed id=%s cabin=%s actor=%s", next.ID, next.CabinID, actor.ID)
	s.publish(ctx, domain.EventBookingCompleted, next, actor, now)
	return &next, nil
}

// Run settles in-flight completions against each snapshot received on
// updates until ctx is done or updates is closed.
func (s *Service) Run(ctx context.Context, updates <-chan domain.Snapshot) {
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			s.mu.Lock()
			s.settle(snap)
			s.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// Completing reports whether a completion for id is still tracked.
func (s *Service) Completing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completing[id]
	return ok
}

// settle drops in-flight completions the snapshot no longer shows as open.
// Callers hold s.mu.
func (s *Service) settle(snap domain.Snapshot) {
	for id := range s.completing {
		b, ok := snap.Find(id)
		if !ok || b.Status != domain.BookingApproved || b.CompletionTime != nil {
			delete(s.completing, id)
		}
	}
}

// Cancel deletes the actor's own pending or active approved booking. The record is
// removed rather than moved to a terminal status.
func (s *Service) Cancel(ctx context.Context, bookingID string, actor domain.Actor) error {
	b, err := s.find(bookingID)
	if err != nil {
		return err
	}
	if err := CheckCancel(b, actor, s.now()); err != nil {
		return err
	}
	if err := s.writer.Delete(ctx, bookingID); err != nil {
		log.Printf("booking_write_failed op=cancel id=%s error=%q", bookingID, err.Error())
		return err
	}

	log.Printf("booking_cancelled id=%s cabin=%s requester=%s prior_status=%s", b.ID, b.CabinID, b.RequesterID, b.Status)
	s.publish(ctx, domain.EventBookingCancelled, b, actor, s.now())
	return nil
}

type CabinView struct {
	domain.Cabin
	CabinStatus
}

// CabinStatuses lists every catalog cabin of the given capacity (all when
// zero) with its derived state.
func (s *Service) CabinStatuses(capacity int) []CabinView {
	now := s.now()
	bookings := s.snapshots.Snapshot().Bookings()
	cabins := s.catalog.FilterByCapacity(capacity)

	out := make([]CabinView, 0, len(cabins))
	for _, c := range cabins {
		out = append(out, CabinView{Cabin: c, CabinStatus: ResourceStatus(c.ID, bookings, now)})
	}
	return out
}

// CabinStatus derives the state of one catalog cabin.
func (s *Service) CabinStatus(cabinID string) (CabinView, bool) {
	c, ok := s.catalog.Get(cabinID)
	if !ok {
		return CabinView{}, false
	}
	return CabinView{Cabin: c, CabinStatus: ResourceStatus(c.ID, s.snapshots.Snapshot().Bookings(), s.now())}, true
}

type MyBookingView struct {
	Booking   domain.Booking `json:"booking"`
	Countdown *Countdown     `json:"countdown,omitempty"`
}

func (s *Service) MyBooking(requesterID string) *MyBookingView {
	now := s.now()
	b := MyBooking(requesterID, s.snapshots.Snapshot().Bookings(), now)
	if b == nil {
		return nil
	}
	return &MyBookingView{Booking: *b, Countdown: NewCountdown(*b, now, s.critical)}
}

// Queue returns pending and approved bookings, pending first, each group
// ordered by timestamp.
func (s *Service) Queue() []domain.Booking {
	bookings := s.snapshots.Snapshot().Bookings()
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == domain.BookingPending || b.Status == domain.BookingApproved {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Status == domain.BookingPending, out[j].Status == domain.BookingPending
		if pi != pj {
			return pi
		}
		return before(out[i], out[j])
	})
	return out
}

func (s *Service) find(id string) (domain.Booking, error) {
	b, ok := s.snapshots.Snapshot().Find(id)
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

func (s *Service) update(ctx context.Context, op, id string, patch syncer.Fields) error {
	if err := s.writer.Update(ctx, id, patch); err != nil {
		log.Printf("booking_write_failed op=%s id=%s error=%q", op, id, err.Error())
		return err
	}
	return nil
}

func (s *Service) publish(ctx context.Context, t domain.BookingEventType, b domain.Booking, actor domain.Actor, at time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, domain.NewBookingEvent(t, b, actor, at)); err != nil {
		log.Printf("booking_event_publish_failed type=%s id=%s error=%q", t, b.ID, err.Error())
	}
}
