package response

import (
	"time"

	"coach-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Amount    string               `json:"amount"`
	Type      entity.PaymentType   `json:"type"`
	Method    entity.PaymentMethod `json:"method"`
	OrderID   string               `json:"order_id"`
	Status    entity.PaymentStatus `json:"status"`
	RelatedID *string              `json:"related_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Amount:    p.Amount.StringFixed(2),
		Type:      p.Type,
		Method:    p.Method,
		OrderID:   p.OrderID,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}

	if p.RelatedID != nil {
		relatedID := p.RelatedID.String()
		resp.RelatedID = &relatedID
	}

	return resp
}

type BalanceResponse struct {
	StudentID string `json:"student_id"`
	Balance   string `json:"balance"`
}

type RevenueSummaryResponse struct {
	Recharges  string `json:"recharges"`
	CourseFees string `json:"course_fees"`
	Refunds    string `json:"refunds"`
}
