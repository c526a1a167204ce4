package repository

import (
	"context"
	"testing"
	"time"

	"cabinbooking/internal/database"
	"cabinbooking/internal/syncer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BookingStore {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := NewBookingStore(db, nil)
	require.NoError(t, store.Migrate())
	return store
}

func TestBookingStore_CreateAndSubscribe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := &recorder{}
	stop, err := store.Subscribe(ctx, rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer stop()
	assert.Empty(t, rec.last())

	id, err := store.Create(ctx, sampleFields())
	require.NoError(t, err)

	recs := rec.last()
	require.Len(t, recs, 1)
	assert.Equal(t, id, recs[0].ID)

	b, err := syncer.DecodeBooking(recs[0])
	require.NoError(t, err)
	assert.Equal(t, "C1", b.CabinID)
	assert.Equal(t, 4, b.Capacity)
	assert.Equal(t, []string{"Ana", "Ben", "Cid", "Dee"}, b.GroupMembers)
	assert.True(t, b.Timestamp.Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)), b.Timestamp)
	assert.Empty(t, b.ApprovedBy)
	assert.Nil(t, b.CompletionTime)
	assert.Empty(t, rec.errs)
}

func TestBookingStore_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rec := &recorder{}
	stop, err := store.Subscribe(ctx, rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer stop()

	id, err := store.Create(ctx, sampleFields())
	require.NoError(t, err)

	approvedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Update(ctx, id, syncer.Fields{
		syncer.FieldStatus:     "Approved",
		syncer.FieldApprovedBy: "Admin (abcd)",
		syncer.FieldTimestamp:  approvedAt.Format(time.RFC3339),
	}))

	b, err := syncer.DecodeBooking(rec.last()[0])
	require.NoError(t, err)
	assert.Equal(t, "Approved", string(b.Status))
	assert.Equal(t, "Admin (abcd)", b.ApprovedBy)
	assert.True(t, b.Timestamp.Equal(approvedAt))
	assert.Equal(t, "Ana", b.RequesterName)

	doneAt := approvedAt.Add(2 * time.Hour)
	require.NoError(t, store.Update(ctx, id, syncer.Fields{
		syncer.FieldStatus:         "Completed",
		syncer.FieldCompletionTime: doneAt.UnixMilli(),
	}))
	b, err = syncer.DecodeBooking(rec.last()[0])
	require.NoError(t, err)
	require.NotNil(t, b.CompletionTime)
	assert.True(t, b.CompletionTime.Equal(doneAt))
}

func TestBookingStore_RejectsBadWrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Create(ctx, syncer.Fields{"colour": "blue"})
	assert.Error(t, err)

	bad := sampleFields()
	bad[syncer.FieldTimestamp] = "yesterday-ish"
	_, err = store.Create(ctx, bad)
	assert.ErrorIs(t, err, syncer.ErrUnparseableTime)

	bad = sampleFields()
	bad[syncer.FieldGroupMembers] = []any{"Ana", 7}
	_, err = store.Create(ctx, bad)
	assert.Error(t, err)

	assert.ErrorIs(t, store.Update(ctx, "missing", syncer.Fields{syncer.FieldStatus: "Rejected"}), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)
}

func TestBookingStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rec := &recorder{}
	stop, err := store.Subscribe(ctx, rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer stop()

	id, err := store.Create(ctx, sampleFields())
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))
	assert.Empty(t, rec.last())
}

func TestBookingStore_PruneTerminal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	keep, err := store.Create(ctx, sampleFields())
	require.NoError(t, err)

	done := sampleFields()
	done[syncer.FieldStatus] = "Completed"
	_, err = store.Create(ctx, done)
	require.NoError(t, err)

	rejected := sampleFields()
	rejected[syncer.FieldStatus] = "Rejected"
	_, err = store.Create(ctx, rejected)
	require.NoError(t, err)

	n, err := store.PruneTerminal(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "recent records are kept")

	n, err = store.PruneTerminal(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	recs, err := store.list(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, keep, recs[0].ID)
}
