package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCountdown(t *testing.T) {
	b := approved("b1", "C1", "user-a", t0)

	c := NewCountdown(b, t0.Add(25*time.Minute+30*time.Second), DefaultCriticalThreshold)
	require.NotNil(t, c)
	assert.Equal(t, "01:34:30", c.Display)
	assert.Equal(t, int64(94*60+30), c.RemainingSeconds)
	assert.Equal(t, t0.Add(2*time.Hour), c.EndTime)
	assert.False(t, c.Critical)
	assert.False(t, c.Expired)
}

func TestNewCountdown_Critical(t *testing.T) {
	b := approved("b1", "C1", "user-a", t0)

	c := NewCountdown(b, t0.Add(110*time.Minute), DefaultCriticalThreshold)
	require.NotNil(t, c)
	assert.True(t, c.Critical, "exactly ten minutes left is critical")
	assert.Equal(t, "00:10:00", c.Display)

	c = NewCountdown(b, t0.Add(109*time.Minute), DefaultCriticalThreshold)
	assert.False(t, c.Critical)
}

func TestNewCountdown_Expired(t *testing.T) {
	b := approved("b1", "C1", "user-a", t0)

	for _, at := range []time.Time{t0.Add(2 * time.Hour), t0.Add(2*time.Hour + time.Second)} {
		c := NewCountdown(b, at, DefaultCriticalThreshold)
		require.NotNil(t, c)
		assert.True(t, c.Expired)
		assert.Equal(t, "EXPIRED", c.Display)
		assert.Zero(t, c.RemainingSeconds)
	}
}

func TestNewCountdown_LongSessionsShowTotalHours(t *testing.T) {
	b := approved("b1", "C1", "user-a", t0)
	b.DurationHours = 30
	c := NewCountdown(b, t0, DefaultCriticalThreshold)
	assert.Equal(t, "30:00:00", c.Display)
}

func TestNewCountdown_OnlyOpenSessions(t *testing.T) {
	assert.Nil(t, NewCountdown(pending("b1", "C1", "user-a", t0), t0, DefaultCriticalThreshold))

	done := approved("b1", "C1", "user-a", t0)
	end := t0.Add(time.Hour)
	done.CompletionTime = &end
	assert.Nil(t, NewCountdown(done, t0, DefaultCriticalThreshold))
}

func TestRemainingMatchesExpiry(t *testing.T) {
	b := approved("b1", "C1", "user-a", t0)
	end := t0.Add(2 * time.Hour)

	assert.Equal(t, time.Second, Remaining(b, end.Add(-time.Second)))
	assert.False(t, b.IsExpired(end.Add(-time.Second)))
	assert.Zero(t, Remaining(b, end))
	assert.True(t, b.IsExpired(end))
}
