package model

import "atrium/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldName     = "name"
	FieldLevel    = "level"
	FieldGrid     = "grid"
	FieldCapacity = "capacity"
	FieldType     = "type"
	FieldActive   = "active"
)

// Room is a bookable meeting room. Capacity is nullable: NULL means the
// capacity is unknown, not zero. Grid is the discretized location identifier
// used for proximity lookups.
type Room struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Level    int    `db:"level"`
	Grid     string `db:"grid"`
	Capacity *int   `db:"capacity"`
	Type     string `db:"type"`
	Active   bool   `db:"active"`
	model.Metadata
}
