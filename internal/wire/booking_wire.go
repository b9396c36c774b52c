package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/adaptor"
	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/middleware"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, repo *repository.Repository, log *zap.Logger) {
	// Public coach schedule lookup
	r.Get("/api/coaches/{id}/schedule", bookingHandler.GetCoachSchedule)

	// Student routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleStudent))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Put("/api/bookings/{id}", bookingHandler.ModifyBooking)
	})

	// Coach routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleCoach))

		r.Put("/api/bookings/{id}/confirm", bookingHandler.ConfirmBooking)
		r.Put("/api/bookings/{id}/reject", bookingHandler.RejectBooking)
		r.Get("/api/coach/income", bookingHandler.GetCoachMonthlyIncome)
	})

	// Either participant
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/bookings", bookingHandler.GetMyBookings)
		r.Get("/api/bookings/completed", bookingHandler.GetCompletedBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})

	// Admin settlement controls
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleCoach, entity.RoleAdmin))

		r.Put("/api/bookings/{id}/complete", bookingHandler.CompleteBooking)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Get("/api/admin/bookings/upcoming", bookingHandler.GetUpcomingBookings)
	})
}
