package response

import (
	"time"

	"coach-booking/internal/data/entity"
)

type CourtResponse struct {
	ID          string             `json:"id"`
	CampusID    string             `json:"campus_id"`
	CourtNumber string             `json:"court_number"`
	Status      entity.CourtStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

func CourtToResponse(court *entity.Court) CourtResponse {
	return CourtResponse{
		ID:          court.ID.String(),
		CampusID:    court.CampusID.String(),
		CourtNumber: court.CourtNumber,
		Status:      court.Status,
		CreatedAt:   court.CreatedAt,
	}
}
