package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/dto/request"
	"coach-booking/internal/usecase"
	"coach-booking/pkg/utils"
)

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// CreateCourt handles POST /api/admin/courts (admin only)
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.CreateCourt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "success", court)
}

// GetCourt handles GET /api/courts/{id} (public)
func (h *CourtHandler) GetCourt(w http.ResponseWriter, r *http.Request) {
	courtID := chi.URLParam(r, "id")
	if courtID == "" {
		utils.ResponseBadRequest(w, "Court ID is required", nil)
		return
	}

	court, err := h.service.GetCourt(r.Context(), courtID)
	if err != nil {
		handleServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// UpdateCourt handles PUT /api/admin/courts/{id} (admin only)
func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	courtID := chi.URLParam(r, "id")
	if courtID == "" {
		utils.ResponseBadRequest(w, "Court ID is required", nil)
		return
	}

	var req request.UpdateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), courtID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// ListCourtsByCampus handles GET /api/campuses/{id}/courts (public)
func (h *CourtHandler) ListCourtsByCampus(w http.ResponseWriter, r *http.Request) {
	campusID := chi.URLParam(r, "id")
	if campusID == "" {
		utils.ResponseBadRequest(w, "Campus ID is required", nil)
		return
	}

	courts, err := h.service.ListCourtsByCampus(r.Context(), campusID)
	if err != nil {
		handleServiceError(w, h.log, err, "list courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}
