package syncer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"cabinbooking/internal/domain"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeTime converts a store time value to a UTC instant. It accepts a
// native time.Time, a {seconds, nanoseconds} timestamp object, an epoch in
// milliseconds, or an ISO-8601 string.
func NormalizeTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: missing", ErrUnparseableTime)
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("%w: zero time", ErrUnparseableTime)
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%w: missing", ErrUnparseableTime)
		}
		return NormalizeTime(*t)
	case string:
		return parseISO(t)
	case map[string]any:
		return parseTimestampObject(t)
	case Fields:
		return parseTimestampObject(t)
	}

	ms, ok := toFloat(v)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparseableTime, v)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnparseableTime, ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// NormalizeOptionalTime is NormalizeTime for fields that may be unset.
func NormalizeOptionalTime(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	if p, ok := v.(*time.Time); ok && p == nil {
		return nil, nil
	}
	t, err := NormalizeTime(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseableTime)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
}

func parseTimestampObject(m map[string]any) (time.Time, error) {
	secV, ok := m["seconds"]
	if !ok {
		secV, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: object without seconds", ErrUnparseableTime)
	}
	sec, ok := toFloat(secV)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: seconds %T", ErrUnparseableTime, secV)
	}
	nanosV, ok := m["nanoseconds"]
	if !ok {
		nanosV = m["_nanoseconds"]
	}
	nanos, _ := toFloat(nanosV)
	return time.Unix(int64(sec), int64(nanos)).UTC(), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case nil:
		return nil, true
	case []string:
		return append([]string(nil), s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

// DecodeBooking turns a raw record into a Booking. Records with an
// unparseable time value or a malformed field are rejected.
func DecodeBooking(rec RawRecord) (domain.Booking, error) {
	d := rec.Data
	b := domain.Booking{ID: rec.ID}

	if rec.ID == "" {
		return b, fmt.Errorf("%w: empty id", ErrMalformedRecord)
	}

	var ok bool
	if b.CabinID, ok = d[FieldCabinID].(string); !ok || b.CabinID == "" {
		return b, fmt.Errorf("%w: %s", ErrMalformedRecord, FieldCabinID)
	}
	if b.Capacity, ok = toInt(d[FieldCapacity]); !ok {
		return b, fmt.Errorf("%w: %s", ErrMalformedRecord, FieldCapacity)
	}
	b.RequesterName, _ = d[FieldRequesterName].(string)
	if b.RequesterID, ok = d[FieldRequesterID].(string); !ok {
		return b, fmt.Errorf("%w: %s", ErrMalformedRecord, FieldRequesterID)
	}
	if b.GroupMembers, ok = toStrings(d[FieldGroupMembers]); !ok {
		return b, fmt.Errorf("%w: %s", ErrMalformedRecord, FieldGroupMembers)
	}
	if b.DurationHours, ok = toInt(d[FieldDurationHours]); !ok {
		return b, fmt.Errorf("%w: %s", ErrMalformedRecord, FieldDurationHours)
	}
	status, _ := d[FieldStatus].(string)
	b.Status = domain.BookingStatus(status)
	if !b.Status.Valid() {
		return b, fmt.Errorf("%w: status %q", ErrMalformedRecord, status)
	}
	b.ApprovedBy, _ = d[FieldApprovedBy].(string)

	var err error
	if b.Timestamp, err = NormalizeTime(d[FieldTimestamp]); err != nil {
		return b, fmt.Errorf("%s: %w", FieldTimestamp, err)
	}
	if b.CompletionTime, err = NormalizeOptionalTime(d[FieldCompletionTime]); err != nil {
		return b, fmt.Errorf("%s: %w", FieldCompletionTime, err)
	}
	return b, nil
}

// EncodeBooking renders every persisted field of b. Times are written as
// native time.Time values.
func EncodeBooking(b domain.Booking) Fields {
	f := Fields{
		FieldCabinID:        b.CabinID,
		FieldCapacity:       b.Capacity,
		FieldRequesterName:  b.RequesterName,
		FieldRequesterID:    b.RequesterID,
		FieldGroupMembers:   append([]string(nil), b.GroupMembers...),
		FieldTimestamp:      b.Timestamp,
		FieldDurationHours:  b.DurationHours,
		FieldStatus:         string(b.Status),
		FieldApprovedBy:     nil,
		FieldCompletionTime: nil,
	}
	if b.ApprovedBy != "" {
		f[FieldApprovedBy] = b.ApprovedBy
	}
	if b.CompletionTime != nil {
		f[FieldCompletionTime] = *b.CompletionTime
	}
	return f
}
