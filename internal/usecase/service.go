package usecase

import (
	"go.uber.org/zap"

	"coach-booking/internal/data/repository"
	"coach-booking/pkg/utils"
)

// Service bundles every usecase behind one handle for wiring.
type Service struct {
	Auth    AuthService
	User    UserService
	Court   CourtService
	Booking BookingService
	Payment PaymentService
}

func NewService(repo *repository.Repository, uow repository.UnitOfWork, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo, log),
		Court:   NewCourtService(repo, log),
		Booking: NewBookingService(repo, uow, config, log),
		Payment: NewPaymentService(repo, uow, log),
	}
}
