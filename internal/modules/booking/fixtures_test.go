package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/repository"
	"cabinbooking/internal/syncer"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(at time.Time) *clock { return &clock{now: at} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at
	c.mu.Unlock()
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var (
	memberA = domain.Actor{ID: "user-a", Name: "Ana", Role: domain.RoleMember}
	memberB = domain.Actor{ID: "user-b", Name: "Ben", Role: domain.RoleMember}
	admin   = domain.Actor{ID: "adm-9f3c21", Role: domain.RoleAdmin}
)

func members(n int) []string {
	names := []string{"Ana", "Ben", "Cid", "Dee", "Eve", "Fay"}
	return append([]string(nil), names[:n]...)
}

func pending(id, cabin, requester string, ts time.Time) domain.Booking {
	return domain.Booking{
		ID:            id,
		CabinID:       cabin,
		Capacity:      4,
		RequesterName: "Ana",
		RequesterID:   requester,
		GroupMembers:  members(4),
		Timestamp:     ts,
		DurationHours: 2,
		Status:        domain.BookingPending,
	}
}

func approved(id, cabin, requester string, ts time.Time) domain.Booking {
	b := pending(id, cabin, requester, ts)
	b.Status = domain.BookingApproved
	b.ApprovedBy = "Admin (adm-)"
	return b
}

func staticSnapshot(bookings ...domain.Booking) SnapshotSource {
	return snapshotFunc(func() domain.Snapshot { return domain.NewSnapshot(bookings, t0) })
}

type snapshotFunc func() domain.Snapshot

func (f snapshotFunc) Snapshot() domain.Snapshot { return f() }

/* -------- EventPublisher -------- */

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) types() []domain.BookingEventType {
	var out []domain.BookingEventType
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(domain.BookingEvent).Type)
	}
	return out
}

/* -------- Writer -------- */

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Create(ctx context.Context, fields syncer.Fields) (string, error) {
	args := m.Called(ctx, fields)
	return args.String(0), args.Error(1)
}

func (m *MockWriter) Update(ctx context.Context, id string, fields syncer.Fields) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockWriter) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// env wires the service to an in-memory store through the sync adapter, so
// every write comes back as a fresh snapshot before the call returns.
type env struct {
	clock   *clock
	store   *repository.MemoryStore
	adapter *syncer.Adapter
	events  *MockPublisher
	service *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clk := newClock(t0)
	store := repository.NewMemoryStore(nil)
	adapter := syncer.NewAdapter(store).WithClock(clk.Now)
	require.NoError(t, adapter.Start(context.Background()))
	t.Cleanup(adapter.Stop)

	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	catalog := domain.DefaultCatalog(6, []int{4, 5, 6})
	service := NewService(adapter, adapter, catalog, events, Config{}).WithClock(clk.Now)
	return &env{clock: clk, store: store, adapter: adapter, events: events, service: service}
}

// seed stores b as-is and returns it.
func (e *env) seed(b domain.Booking) domain.Booking {
	e.store.Put(b.ID, syncer.EncodeBooking(b))
	return b
}

func (e *env) get(t *testing.T, id string) domain.Booking {
	t.Helper()
	b, ok := e.adapter.Snapshot().Find(id)
	require.True(t, ok, "booking %s not in snapshot", id)
	return b
}
