package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coach-booking/internal/adaptor"
	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/middleware"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler, repo *repository.Repository, log *zap.Logger) {
	// Public
	r.Get("/api/courts/{id}", courtHandler.GetCourt)
	r.Get("/api/campuses/{id}/courts", courtHandler.ListCourtsByCampus)

	// Admin court management
	r.Route("/api/admin/courts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Post("/", courtHandler.CreateCourt)
		r.Put("/{id}", courtHandler.UpdateCourt)
	})
}
