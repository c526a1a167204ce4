package notification

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"cabinbooking/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultPerUserLimit = 50
	DefaultMaxAge       = 7 * 24 * time.Hour
)

// Service keeps a bounded in-memory inbox per member, filled from booking
// lifecycle events.
type Service struct {
	mu      sync.Mutex
	byUser  map[string][]domain.Notification
	perUser int
	now     func() time.Time
}

func NewService(perUser int) *Service {
	if perUser <= 0 {
		perUser = DefaultPerUserLimit
	}
	return &Service{
		byUser:  make(map[string][]domain.Notification),
		perUser: perUser,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Publish turns a lifecycle event into a notification for the requester.
// Events the requester caused themselves produce nothing.
func (s *Service) Publish(_ context.Context, event domain.BookingEvent) error {
	if event.RequesterID == "" || event.ActorID == event.RequesterID {
		return nil
	}

	var (
		t     domain.NotificationType
		title string
	)
	switch event.Type {
	case domain.EventBookingApproved:
		t, title = domain.NotifBookingApproved, "Booking approved"
	case domain.EventBookingRejected:
		t, title = domain.NotifBookingRejected, "Booking rejected"
	case domain.EventBookingCompleted:
		t, title = domain.NotifSessionEnded, "Session ended"
		if event.ActorID == domain.WatchdogActor.ID {
			t, title = domain.NotifSessionExpired, "Session expired"
		}
	default:
		return nil
	}

	s.Create(event.RequesterID, t, title, fmt.Sprintf("Cabin %s", event.CabinID), event.BookingID)
	return nil
}

func (s *Service) Create(userID string, t domain.NotificationType, title, message, bookingID string) domain.Notification {
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	list := append(s.byUser[userID], n)
	if len(list) > s.perUser {
		list = list[len(list)-s.perUser:]
	}
	s.byUser[userID] = list
	s.mu.Unlock()

	log.Printf("notification_created user_id=%s type=%s booking=%s", userID, t, bookingID)
	return n
}

// GetUserNotifications returns up to limit notifications, newest first, and
// the number of unread ones.
func (s *Service) GetUserNotifications(userID string, limit int) ([]domain.Notification, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	unread := 0
	for _, n := range list {
		if !n.IsRead {
			unread++
		}
	}

	out := make([]domain.Notification, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, unread
}

func (s *Service) MarkAsRead(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) MarkAllAsRead(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	for i := range list {
		list[i].IsRead = true
	}
}

// DeleteOlderThan drops notifications created more than age ago.
func (s *Service) DeleteOlderThan(age time.Duration) int {
	cutoff := s.now().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for userID, list := range s.byUser {
		kept := list[:0]
		for _, n := range list {
			if n.CreatedAt.Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) == 0 {
			delete(s.byUser, userID)
			continue
		}
		s.byUser[userID] = kept
	}
	return deleted
}

// RunCleanup removes old notifications every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			if n := s.DeleteOlderThan(maxAge); n > 0 {
				log.Printf("Cleanup completed: deleted %d old notifications in %v", n, time.Since(start))
			}
		case <-ctx.Done():
			return
		}
	}
}
