package model

import (
	"time"

	"atrium/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldBookedBy  = "booked_by"
	FieldTitle     = "title"
)

// Booking reserves a room for the half-open interval [StartTime, EndTime).
// Bookings are never mutated in place: rescheduling is a cancel plus a new
// reservation, which keeps the no-overlap invariant a pure insert-time
// concern.
type Booking struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	BookedBy  string    `db:"booked_by"`
	Title     string    `db:"title"`
	model.Metadata
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Interval is a time window. The boundary convention is half-open by
// default: [Start, End), so back-to-back bookings do not conflict.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two intervals intersect. With countTouching set,
// intervals are compared as closed, so a shared endpoint counts as overlap.
func (iv Interval) Overlaps(other Interval, countTouching bool) bool {
	if countTouching {
		return !iv.End.Before(other.Start) && !other.End.Before(iv.Start)
	}

	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// IsValid reports whether the interval is well-formed. Zero-length intervals
// are only valid when explicitly allowed.
func (iv Interval) IsValid(allowZeroLength bool) bool {
	if allowZeroLength {
		return !iv.End.Before(iv.Start)
	}

	return iv.Start.Before(iv.End)
}
