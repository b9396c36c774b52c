package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/dto/request"
	"coach-booking/internal/usecase"
	"coach-booking/pkg/utils"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/profile (protected)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetCoach handles GET /api/coaches/{id} (public)
func (h *UserHandler) GetCoach(w http.ResponseWriter, r *http.Request) {
	coachID := chi.URLParam(r, "id")
	if coachID == "" {
		utils.ResponseBadRequest(w, "Coach ID is required", nil)
		return
	}

	coach, err := h.service.GetCoach(r.Context(), coachID)
	if err != nil {
		handleServiceError(w, h.log, err, "get coach")
		return
	}

	utils.ResponseSuccess(w, "success", coach)
}

// ListCoaches handles GET /api/coaches (public)
func (h *UserHandler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	coaches, err := h.service.ListCoaches(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list coaches")
		return
	}

	utils.ResponseSuccess(w, "success", coaches)
}
