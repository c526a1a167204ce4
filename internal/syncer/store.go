package syncer

import "context"

// Store field names. They match the document layout the web client writes.
const (
	FieldCabinID        = "cabinId"
	FieldCapacity       = "capacity"
	FieldRequesterName  = "requesterName"
	FieldRequesterID    = "requesterId"
	FieldGroupMembers   = "groupMembers"
	FieldTimestamp      = "timestamp"
	FieldDurationHours  = "durationHours"
	FieldStatus         = "status"
	FieldApprovedBy     = "approvedBy"
	FieldCompletionTime = "completionTime"
)

// Fields is a partial or full record keyed by store field name. A nil value
// clears the field.
type Fields map[string]any

// RawRecord is a record as the store delivers it, before normalization.
type RawRecord struct {
	ID   string
	Data Fields
}

// Store is the realtime record store. Subscribe pushes the full record set
// on every change; writes are last-write-wins per record.
type Store interface {
	Subscribe(ctx context.Context, onSnapshot func([]RawRecord), onError func(error)) (unsubscribe func(), err error)
	Create(ctx context.Context, fields Fields) (string, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}
