package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cabinbooking/internal/pkg/utils"
	"cabinbooking/internal/syncer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// BookingStore keeps booking records in the cabin_bookings table and pushes
// the full set to subscribers after every change.
type BookingStore struct {
	db   *gorm.DB
	feed ChangeFeed
}

func NewBookingStore(db *gorm.DB, feed ChangeFeed) *BookingStore {
	if feed == nil {
		feed = NewLocalFeed()
	}
	return &BookingStore{db: db, feed: feed}
}

type bookingModel struct {
	ID             string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	CabinID        string     `gorm:"column:cabin_id;index;not null"`
	Capacity       int        `gorm:"column:capacity;not null"`
	RequesterName  string     `gorm:"column:requester_name"`
	RequesterID    string     `gorm:"column:requester_id;index;not null"`
	GroupMembers   string     `gorm:"column:group_members;type:text"`
	Timestamp      time.Time  `gorm:"column:timestamp;not null"`
	DurationHours  int        `gorm:"column:duration_hours;not null"`
	Status         string     `gorm:"column:status;index;not null"`
	ApprovedBy     *string    `gorm:"column:approved_by"`
	CompletionTime *time.Time `gorm:"column:completion_time"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "cabin_bookings" }

// Migrate creates or updates the cabin_bookings table.
func (r *BookingStore) Migrate() error {
	return r.db.AutoMigrate(&bookingModel{})
}

var fieldColumns = map[string]string{
	syncer.FieldCabinID:        "cabin_id",
	syncer.FieldCapacity:       "capacity",
	syncer.FieldRequesterName:  "requester_name",
	syncer.FieldRequesterID:    "requester_id",
	syncer.FieldGroupMembers:   "group_members",
	syncer.FieldTimestamp:      "timestamp",
	syncer.FieldDurationHours:  "duration_hours",
	syncer.FieldStatus:         "status",
	syncer.FieldApprovedBy:     "approved_by",
	syncer.FieldCompletionTime: "completion_time",
}

func toRawRecord(m bookingModel) syncer.RawRecord {
	data := syncer.Fields{
		syncer.FieldCabinID:        m.CabinID,
		syncer.FieldCapacity:       m.Capacity,
		syncer.FieldRequesterName:  m.RequesterName,
		syncer.FieldRequesterID:    m.RequesterID,
		syncer.FieldGroupMembers:   utils.StringToList(m.GroupMembers),
		syncer.FieldTimestamp:      m.Timestamp,
		syncer.FieldDurationHours:  m.DurationHours,
		syncer.FieldStatus:         m.Status,
		syncer.FieldApprovedBy:     nil,
		syncer.FieldCompletionTime: nil,
	}
	if m.ApprovedBy != nil {
		data[syncer.FieldApprovedBy] = *m.ApprovedBy
	}
	if m.CompletionTime != nil {
		data[syncer.FieldCompletionTime] = *m.CompletionTime
	}
	return syncer.RawRecord{ID: m.ID, Data: data}
}

// toColumns converts store fields to column values, normalizing times and
// encoding the member list.
func toColumns(fields syncer.Fields) (map[string]any, error) {
	cols := make(map[string]any, len(fields))
	for name, v := range fields {
		col, ok := fieldColumns[name]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		switch name {
		case syncer.FieldTimestamp:
			t, err := syncer.NormalizeTime(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cols[col] = t
		case syncer.FieldCompletionTime:
			t, err := syncer.NormalizeOptionalTime(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cols[col] = t
		case syncer.FieldGroupMembers:
			members, err := toMembers(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cols[col] = utils.ListToString(members)
		default:
			cols[col] = v
		}
	}
	return cols, nil
}

func toMembers(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("member %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported member list %T", v)
	}
}

func (r *BookingStore) Subscribe(ctx context.Context, onSnapshot func([]syncer.RawRecord), onError func(error)) (func(), error) {
	return subscribe(ctx, r.feed, r.list, onSnapshot, onError)
}

func (r *BookingStore) list(ctx context.Context) ([]syncer.RawRecord, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows)
	if tx.Error != nil {
		return nil, describeDBError(tx.Error)
	}
	out := make([]syncer.RawRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRawRecord(m))
	}
	return out, nil
}

func (r *BookingStore) Create(ctx context.Context, fields syncer.Fields) (string, error) {
	cols, err := toColumns(fields)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	cols["id"] = id
	cols["created_at"] = now
	cols["updated_at"] = now

	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Create(cols)
	if tx.Error != nil {
		return "", describeDBError(tx.Error)
	}
	r.notify(ctx)
	return id, nil
}

func (r *BookingStore) Update(ctx context.Context, id string, fields syncer.Fields) error {
	cols, err := toColumns(fields)
	if err != nil {
		return err
	}
	cols["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(cols)
	if tx.Error != nil {
		return describeDBError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	r.notify(ctx)
	return nil
}

func (r *BookingStore) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&bookingModel{})
	if tx.Error != nil {
		return describeDBError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	r.notify(ctx)
	return nil
}

// PruneTerminal removes Rejected and Completed records last changed before
// cutoff. Pending and Approved records are never touched.
func (r *BookingStore) PruneTerminal(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []string{"Rejected", "Completed"}, cutoff.UTC()).
		Delete(&bookingModel{})
	if tx.Error != nil {
		return 0, describeDBError(tx.Error)
	}
	if tx.RowsAffected > 0 {
		r.notify(ctx)
	}
	return tx.RowsAffected, nil
}

func (r *BookingStore) notify(ctx context.Context) {
	if err := r.feed.Notify(ctx); err != nil {
		log.Printf("booking_store_notify_error error=%q", err.Error())
	}
}

func describeDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s %s: %w", pgErr.Code, pgErr.ConstraintName, err)
	}
	return err
}
