package request

type CreateCourtRequest struct {
	CampusID    string `json:"campus_id" validate:"required,uuid4"`
	CourtNumber string `json:"court_number" validate:"required,min=1,max=20"`
}

type UpdateCourtRequest struct {
	CourtNumber *string `json:"court_number,omitempty" validate:"omitempty,min=1,max=20"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=available maintenance"`
}
