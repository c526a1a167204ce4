package auth

import (
	"fmt"
	"log"
	"sort"

	"cabinbooking/internal/domain"
)

const recentLimit = 3

type Service struct {
	snapshots SnapshotSource
	tokens    TokenIssuer
}

func NewService(snapshots SnapshotSource, tokens TokenIssuer) *Service {
	return &Service{snapshots: snapshots, tokens: tokens}
}

// Profile describes actor. With includeStats it adds booking counts and the
// most recent bookings from the current snapshot.
func (s *Service) Profile(actor domain.Actor, includeStats bool) UserProfileResponse {
	profile := UserProfileResponse{ID: actor.ID, Name: actor.Name, Role: string(actor.Role)}
	if !includeStats {
		return profile
	}

	var own []domain.Booking
	for _, b := range s.snapshots.Snapshot().Bookings() {
		if b.RequesterID == actor.ID {
			own = append(own, b)
		}
	}

	stats := &UserStats{TotalBookings: len(own)}
	for _, b := range own {
		switch b.Status {
		case domain.BookingPending:
			stats.PendingBookings++
		case domain.BookingApproved:
			stats.ApprovedBookings++
		case domain.BookingCompleted:
			stats.CompletedBookings++
		case domain.BookingRejected:
			stats.RejectedBookings++
		}
	}
	profile.Stats = stats

	sort.SliceStable(own, func(i, j int) bool { return own[i].Timestamp.After(own[j].Timestamp) })
	if len(own) > recentLimit {
		own = own[:recentLimit]
	}
	profile.RecentBookings = make([]RecentBooking, 0, len(own))
	for _, b := range own {
		profile.RecentBookings = append(profile.RecentBookings, RecentBooking{
			ID:      b.ID,
			CabinID: b.CabinID,
			Date:    b.Timestamp,
			Status:  string(b.Status),
		})
	}
	return profile
}

// Refresh issues a new token for an authenticated actor.
func (s *Service) Refresh(actor domain.Actor) (string, error) {
	if actor.ID == "" {
		return "", ErrUnauthorized
	}
	token, err := s.tokens.GenerateToken(actor.ID, string(actor.Role), actor.Name)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	log.Printf("session_refreshed user_id=%s role=%s", actor.ID, actor.Role)
	return token, nil
}
