package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore records writes and lets the test push snapshots and errors.
type MockStore struct {
	mock.Mock

	mu         sync.Mutex
	onSnapshot func([]RawRecord)
	onError    func(error)
}

func (m *MockStore) Subscribe(ctx context.Context, onSnapshot func([]RawRecord), onError func(error)) (func(), error) {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.onSnapshot, m.onError = onSnapshot, onError
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.onSnapshot, m.onError = nil, nil
		m.mu.Unlock()
	}, nil
}

func (m *MockStore) push(recs ...RawRecord) {
	m.mu.Lock()
	fn := m.onSnapshot
	m.mu.Unlock()
	if fn != nil {
		fn(recs)
	}
}

func (m *MockStore) fail(err error) {
	m.mu.Lock()
	fn := m.onError
	m.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (m *MockStore) Create(ctx context.Context, fields Fields) (string, error) {
	args := m.Called(ctx, fields)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id string, fields Fields) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func startAdapter(t *testing.T) (*Adapter, *MockStore) {
	t.Helper()
	store := new(MockStore)
	store.On("Subscribe", mock.Anything).Return(nil)
	a := NewAdapter(store).WithClock(func() time.Time { return at })
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Stop)
	return a, store
}

func TestAdapter_ReplacesSnapshotAndDiscardsBadRecords(t *testing.T) {
	a, store := startAdapter(t)

	select {
	case <-a.Ready():
		t.Fatal("ready before first snapshot")
	default:
	}

	bad := rawFields()
	bad[FieldTimestamp] = "garbage"
	store.push(
		RawRecord{ID: "good", Data: rawFields()},
		RawRecord{ID: "bad", Data: bad},
	)

	<-a.Ready()
	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Find("good")
	assert.True(t, ok)
	_, ok = snap.Find("bad")
	assert.False(t, ok)
	assert.Equal(t, at, snap.SyncedAt())

	store.push()
	assert.Zero(t, a.Snapshot().Len(), "snapshots are replaced, not merged")
	assert.Equal(t, 1, snap.Len(), "earlier snapshot values are unaffected")
}

func TestAdapter_SyncErrorKeepsLastSnapshot(t *testing.T) {
	a, store := startAdapter(t)
	store.push(RawRecord{ID: "b1", Data: rawFields()})

	store.fail(errors.New("connection reset"))
	assert.ErrorIs(t, a.SyncErr(), ErrSync)
	assert.Equal(t, 1, a.Snapshot().Len())

	store.push(RawRecord{ID: "b1", Data: rawFields()})
	assert.NoError(t, a.SyncErr())
}

func TestAdapter_StartFailure(t *testing.T) {
	store := new(MockStore)
	store.On("Subscribe", mock.Anything).Return(errors.New("refused"))

	err := NewAdapter(store).Start(context.Background())
	assert.ErrorIs(t, err, ErrSync)
}

func TestAdapter_ListenCoalesces(t *testing.T) {
	a, store := startAdapter(t)
	ch, cancel := a.Listen()
	defer cancel()

	store.push()
	store.push(RawRecord{ID: "b1", Data: rawFields()})

	snap := <-ch
	assert.Equal(t, 1, snap.Len(), "only the newest snapshot is buffered")
	select {
	case <-ch:
		t.Fatal("stale snapshot delivered")
	default:
	}
}

func TestAdapter_StopClosesListeners(t *testing.T) {
	store := new(MockStore)
	store.On("Subscribe", mock.Anything).Return(nil)
	a := NewAdapter(store)
	require.NoError(t, a.Start(context.Background()))

	ch, cancel := a.Listen()
	a.Stop()
	_, open := <-ch
	assert.False(t, open)
	cancel()

	store.push(RawRecord{ID: "b1", Data: rawFields()})
	assert.Zero(t, a.Snapshot().Len(), "no deliveries after stop")
}

func TestAdapter_WritesWrapErrors(t *testing.T) {
	a, store := startAdapter(t)
	ctx := context.Background()
	cause := errors.New("permission denied")

	store.On("Create", ctx, mock.Anything).Return("", cause).Once()
	store.On("Update", ctx, "b1", mock.Anything).Return(cause).Once()
	store.On("Delete", ctx, "b1").Return(cause).Once()

	_, err := a.Create(ctx, Fields{})
	assert.ErrorIs(t, err, ErrWrite)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, a.Update(ctx, "b1", Fields{}), ErrWrite)
	assert.ErrorIs(t, a.Delete(ctx, "b1"), ErrWrite)

	store.On("Create", ctx, mock.Anything).Return("new-id", nil).Once()
	id, err := a.Create(ctx, Fields{})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
}
