package model

const (
	TableGridCells = "grid_cells"
	TableEntries   = "proximity_entries"
	EntityName     = "proximity"

	FieldCell     = "cell"
	FieldGridCell = "grid_cell"
	FieldRoomID   = "room_id"
	FieldDistance = "distance"
)

// Entry is one row of the proximity index: the walking distance from a grid
// cell to a room, in abstract distance units.
type Entry struct {
	GridCell string  `db:"grid_cell"`
	RoomID   string  `db:"room_id"`
	Distance float64 `db:"distance"`
}
