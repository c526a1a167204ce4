package booking

import (
	"fmt"
	"time"

	"cabinbooking/internal/domain"
)

const (
	DefaultCriticalThreshold = 10 * time.Minute
	expiredDisplay           = "EXPIRED"
)

type Countdown struct {
	RemainingSeconds int64     `json:"remaining_seconds"`
	EndTime          time.Time `json:"end_time"`
	Display          string    `json:"display"`
	Critical         bool      `json:"critical"`
	Expired          bool      `json:"expired"`
}

// Remaining is the time left in b's session window at now. The watchdog
// expires a session exactly when this reaches zero.
func Remaining(b domain.Booking, now time.Time) time.Duration {
	return b.EndTime().Sub(now)
}

// NewCountdown returns nil unless b is an approved, uncompleted session.
func NewCountdown(b domain.Booking, now time.Time, critical time.Duration) *Countdown {
	if b.Status != domain.BookingApproved || b.CompletionTime != nil {
		return nil
	}
	left := Remaining(b, now)
	c := &Countdown{EndTime: b.EndTime()}
	if left <= 0 {
		c.Expired = true
		c.Display = expiredDisplay
		return c
	}
	c.RemainingSeconds = int64(left / time.Second)
	c.Display = formatClock(left)
	c.Critical = left <= critical
	return c
}

func formatClock(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
