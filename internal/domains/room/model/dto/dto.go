package dto

import (
	"github.com/google/uuid"

	"atrium/internal/domains/room/model"
	"atrium/shared"
	gDto "atrium/shared/dto"
	gModel "atrium/shared/model"
	"atrium/shared/timezone"
)

type CreateRoomRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Level    int    `json:"level"    validate:"gte=0"`
	Grid     string `json:"grid"     validate:"required,grid"`
	Capacity *int   `json:"capacity" validate:"omitempty,gte=0"`
	Type     string `json:"type"     validate:"omitempty,max=50"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Level:    c.Level,
		Grid:     c.Grid,
		Capacity: c.Capacity,
		Type:     c.Type,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name     string `db:"name"     json:"name"     validate:"omitempty,max=100"`
	Level    *int   `db:"level"    json:"level"    validate:"omitempty,gte=0"`
	Grid     string `db:"grid"     json:"grid"     validate:"omitempty,grid"`
	Capacity *int   `db:"capacity" json:"capacity" validate:"omitempty,gte=0"`
	Type     string `db:"type"     json:"type"     validate:"omitempty,max=50"`
	Active   *bool  `db:"active"   json:"active"   validate:"omitempty"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Grid     string `json:"grid"`
	Capacity *int   `json:"capacity"`
	Type     string `json:"type"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Level = model.Level
	r.Grid = model.Grid
	r.Capacity = model.Capacity
	r.Type = model.Type
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
