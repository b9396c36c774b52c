package response

import (
	"time"

	"coach-booking/internal/data/entity"
)

type BookingResponse struct {
	ID           string               `json:"id"`
	CoachID      string               `json:"coach_id"`
	StudentID    string               `json:"student_id"`
	CourtID      *string              `json:"court_id,omitempty"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
	Duration     string               `json:"duration"`
	Fee          string               `json:"fee"`
	Status       entity.BookingStatus `json:"status"`
	CancelReason string               `json:"cancel_reason,omitempty"`
	CancelBy     *string              `json:"cancel_by,omitempty"`
	CancelTime   *time.Time           `json:"cancel_time,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:           b.ID.String(),
		CoachID:      b.CoachID.String(),
		StudentID:    b.StudentID.String(),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Duration:     b.Duration.StringFixed(2),
		Fee:          b.Fee.StringFixed(2),
		Status:       b.Status,
		CancelReason: b.CancelReason,
		CancelTime:   b.CancelTime,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}

	if b.CourtID != nil {
		courtID := b.CourtID.String()
		resp.CourtID = &courtID
	}
	if b.CancelBy != nil {
		cancelBy := b.CancelBy.String()
		resp.CancelBy = &cancelBy
	}

	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}
