package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/adaptor"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/middleware"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, repo *repository.Repository, log *zap.Logger) {
	// Public
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/logout", authHandler.Logout)
	})
}
