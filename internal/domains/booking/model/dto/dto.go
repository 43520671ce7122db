package dto

import (
	"time"

	"github.com/google/uuid"

	"atrium/internal/domains/booking/model"
	"atrium/shared"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	gModel "atrium/shared/model"
	"atrium/shared/timezone"
)

type CreateBookingRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	Start  string `json:"start"   validate:"required"`
	End    string `json:"end"     validate:"required"`
	Title  string `json:"title"   validate:"omitempty,max=200"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return model.Booking{}, err
	}

	end, err := time.Parse(time.RFC3339, c.End)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		StartTime: start,
		EndTime:   end,
		BookedBy:  user,
		Title:     c.Title,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type BookingResponse struct {
	ID       string `json:"id"`
	RoomID   string `json:"room_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	BookedBy string `json:"booked_by"`
	Title    string `json:"title"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.Start = model.StartTime.Format(constant.DateFormat)
	r.End = model.EndTime.Format(constant.DateFormat)
	r.BookedBy = model.BookedBy
	r.Title = model.Title
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
