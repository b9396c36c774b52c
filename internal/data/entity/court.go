package entity

import "github.com/google/uuid"

type CourtStatus string

const (
	CourtStatusAvailable   CourtStatus = "available"
	CourtStatusMaintenance CourtStatus = "maintenance"
)

type Court struct {
	Base
	CampusID    uuid.UUID   `db:"campus_id"`
	CourtNumber string      `db:"court_number"`
	Status      CourtStatus `db:"status"`
}
