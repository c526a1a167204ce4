package admin

import (
	"context"
	"fmt"
	"io"
	"testing"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/modules/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Approve(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLifecycle) Reject(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLifecycle) Complete(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLifecycle) Queue() []domain.Booking {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Booking)
}

func (m *MockLifecycle) Export(w io.Writer) error {
	args := m.Called(w)
	if s, ok := args.Get(1).(string); ok && s != "" {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(0)
}

var adminActor = domain.Actor{ID: "adm-12345", Role: domain.RoleAdmin}

/* ==================== TESTS ==================== */

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"approve":        ActionApprove,
		"REJECT":         ActionReject,
		"complete":       ActionForceComplete,
		"force-complete": ActionForceComplete,
		"force_complete": ActionForceComplete,
	}
	for in, want := range cases {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAction("delete")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDispatch_RoutesToLifecycle(t *testing.T) {
	ctx := context.Background()
	lc := new(MockLifecycle)
	approved := &domain.Booking{ID: "b1", Status: domain.BookingApproved}
	rejected := &domain.Booking{ID: "b2", Status: domain.BookingRejected}
	completed := &domain.Booking{ID: "b3", Status: domain.BookingCompleted}
	lc.On("Approve", ctx, "b1", adminActor).Return(approved, nil).Once()
	lc.On("Reject", ctx, "b2", adminActor).Return(rejected, nil).Once()
	lc.On("Complete", ctx, "b3", adminActor).Return(completed, nil).Once()

	d := NewDispatcher(lc)

	b, err := d.Dispatch(ctx, "b1", ActionApprove, adminActor)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, b.Status)

	b, err = d.Dispatch(ctx, "b2", ActionReject, adminActor)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRejected, b.Status)

	b, err = d.Dispatch(ctx, "b3", ActionForceComplete, adminActor)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)

	lc.AssertExpectations(t)
}

func TestDispatch_RequiresAdmin(t *testing.T) {
	lc := new(MockLifecycle)
	d := NewDispatcher(lc)

	_, err := d.Dispatch(context.Background(), "b1", ActionApprove, domain.Actor{ID: "u1", Role: domain.RoleMember})
	assert.ErrorIs(t, err, booking.ErrForbidden)
	lc.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_UnknownAction(t *testing.T) {
	d := NewDispatcher(new(MockLifecycle))
	_, err := d.Dispatch(context.Background(), "b1", Action("archive"), adminActor)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDispatch_PropagatesTransitionError(t *testing.T) {
	ctx := context.Background()
	lc := new(MockLifecycle)
	lc.On("Approve", ctx, "b1", adminActor).
		Return(nil, fmt.Errorf("%w: booking b1 is Approved", booking.ErrInvalidTransition))

	_, err := NewDispatcher(lc).Dispatch(ctx, "b1", ActionApprove, adminActor)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
}
