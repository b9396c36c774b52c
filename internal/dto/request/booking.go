package request

import "time"

type CreateBookingRequest struct {
	CoachID   string    `json:"coach_id" validate:"required,uuid4"`
	CourtID   *string   `json:"court_id,omitempty" validate:"omitempty,uuid4"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// ModifyBookingRequest carries only the fields being changed; nil means
// keep the current value.
type ModifyBookingRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	CourtID   *string    `json:"court_id,omitempty" validate:"omitempty,uuid4"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=255"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=255"`
}
