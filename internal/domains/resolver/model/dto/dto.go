package dto

import (
	"time"

	"atrium/internal/domains/booking/model"
)

// ResolveOptions tunes a single resolution without changing the configured
// defaults. Nil fields fall back to configuration.
type ResolveOptions struct {
	IntersectionSlack *int     `json:"intersection_slack" validate:"omitempty,min=0"`
	BestEffortPenalty *float64 `json:"best_effort_penalty" validate:"omitempty,min=0"`
}

type ResolveRequest struct {
	Participants []string       `json:"participants" validate:"required,min=1,dive,grid"`
	Start        string         `json:"start"        validate:"required"`
	End          string         `json:"end"          validate:"required"`
	Limit        int            `json:"limit"        validate:"omitempty,min=1"`
	Options      ResolveOptions `json:"options"`
}

func (r *ResolveRequest) Interval() (model.Interval, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return model.Interval{}, err
	}

	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return model.Interval{}, err
	}

	return model.Interval{Start: start, End: end}, nil
}

type CandidateResult struct {
	RoomID    string             `json:"room_id"`
	Name      string             `json:"name"`
	Level     int                `json:"level"`
	Grid      string             `json:"grid"`
	Capacity  *int               `json:"capacity"`
	Type      string             `json:"type"`
	Score     float64            `json:"score"`
	Distances map[string]float64 `json:"distances"`
	Reason    string             `json:"reason"`
}

type ResolveResponse struct {
	Candidates []CandidateResult `json:"candidates"`
	BestEffort bool              `json:"best_effort"`
}
