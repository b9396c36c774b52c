package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/adaptor"
	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/middleware"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, repo *repository.Repository, log *zap.Logger) {
	// Gateway callback comes from the payment provider, not a session.
	r.Post("/api/payments/callback", paymentHandler.GatewayCallback)

	// Student routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleStudent))

		r.Post("/api/payments/recharge", paymentHandler.Recharge)
		r.Get("/api/payments/balance", paymentHandler.GetBalance)
	})

	// Any authenticated user can see their own payment history
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/payments", paymentHandler.GetMyPayments)
	})

	// Admin money overview
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Get("/api/admin/payments/summary", paymentHandler.GetRevenueSummary)
	})
}
