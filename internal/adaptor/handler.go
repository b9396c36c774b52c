package adaptor

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"coach-booking/internal/usecase"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/utils"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Court   *CourtHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Court:   NewCourtHandler(service.Court, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// handleServiceError maps usecase errors onto HTTP responses. Retryable
// store conflicts get 503 with Retry-After so clients know to retry.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, apperr.ErrTimeConflict):
		log.Warn(operation+" failed - time conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, apperr.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, apperr.ErrInsufficientBalance),
		errors.Is(err, apperr.ErrInvalidStateTransition),
		errors.Is(err, apperr.ErrCancellationWindowExpired):
		log.Warn(operation+" failed - rejected", zap.Error(err))
		utils.ResponseUnprocessable(w, errMsg)

	case errors.Is(err, apperr.ErrInvalidInterval), errors.Is(err, apperr.ErrInvalidInput):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, apperr.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case apperr.IsRetryable(err):
		log.Warn(operation+" hit a store conflict", zap.Error(err))
		utils.ResponseRetryLater(w, "temporary conflict, retry the request")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
