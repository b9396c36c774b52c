package adaptor

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"coach-booking/internal/dto/request"
	"coach-booking/internal/usecase"
	"coach-booking/pkg/utils"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Recharge handles POST /api/payments/recharge (student)
func (h *PaymentHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.service.Recharge(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "recharge")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// GatewayCallback handles POST /api/payments/callback (gateway)
func (h *PaymentHandler) GatewayCallback(w http.ResponseWriter, r *http.Request) {
	var req request.GatewayCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.service.ProcessGatewayCallback(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "process gateway callback")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetBalance handles GET /api/payments/balance (student)
func (h *PaymentHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get balance")
		return
	}

	utils.ResponseSuccess(w, "success", balance)
}

// GetMyPayments handles GET /api/payments (protected)
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	payments, err := h.service.GetUserPayments(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// GetRevenueSummary handles GET /api/admin/payments/summary (admin)
func (h *PaymentHandler) GetRevenueSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetRevenueSummary(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get revenue summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}
