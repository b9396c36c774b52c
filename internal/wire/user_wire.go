package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/adaptor"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/middleware"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, repo *repository.Repository, log *zap.Logger) {
	// Public coach directory
	r.Get("/api/coaches", userHandler.ListCoaches)
	r.Get("/api/coaches/{id}", userHandler.GetCoach)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/profile", userHandler.GetProfile)
	})
}
