package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/dto/request"
	"coach-booking/internal/usecase"
	"coach-booking/pkg/utils"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (student)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// ModifyBooking handles PUT /api/bookings/{id} (student)
func (h *BookingHandler) ModifyBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.ModifyBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.ModifyBooking(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "modify booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ConfirmBooking handles PUT /api/bookings/{id}/confirm (coach)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (student or coach)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), bookingID, userID.String(), req.Reason)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RejectBooking handles PUT /api/bookings/{id}/reject (coach)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.RejectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RejectBooking(r.Context(), bookingID, userID.String(), req.Reason)
	if err != nil {
		handleServiceError(w, h.log, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CompleteBooking handles PUT /api/bookings/{id}/complete (coach or admin)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.CompleteBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetMyBookings handles GET /api/bookings (student)
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
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

	bookings, err := h.service.GetStudentBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetCoachSchedule handles GET /api/coaches/{id}/schedule?from=...&to=... (public)
func (h *BookingHandler) GetCoachSchedule(w http.ResponseWriter, r *http.Request) {
	coachID := chi.URLParam(r, "id")
	if coachID == "" {
		utils.ResponseBadRequest(w, "Coach ID is required", nil)
		return
	}

	query := r.URL.Query()
	from, err := parseTimeParam(query.Get("from"), time.Now())
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid from parameter, expected RFC3339", nil)
		return
	}
	to, err := parseTimeParam(query.Get("to"), from.AddDate(0, 0, 7))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid to parameter, expected RFC3339", nil)
		return
	}

	schedule, err := h.service.GetCoachSchedule(r.Context(), coachID, from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "get coach schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// GetCompletedBookings handles GET /api/bookings/completed (protected)
func (h *BookingHandler) GetCompletedBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListCompletedBookings(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get completed bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetUpcomingBookings handles GET /api/admin/bookings/upcoming?hours=N
// (admin), the reminder worklist of confirmed sessions about to start.
func (h *BookingHandler) GetUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	hours := utils.ParseInt(r.URL.Query().Get("hours"), 24)

	bookings, err := h.service.ListUpcomingBookings(r.Context(), hours)
	if err != nil {
		handleServiceError(w, h.log, err, "get upcoming bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetCoachMonthlyIncome handles GET /api/coach/income (coach)
func (h *BookingHandler) GetCoachMonthlyIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	income, err := h.service.GetCoachMonthlyIncome(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get coach income")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]string{"monthly_income": income})
}

func parseTimeParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, value)
}
