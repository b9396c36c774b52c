package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/internal/dto/request"
	"coach-booking/internal/dto/response"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/utils"
)

type CourtService interface {
	CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error)
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
	UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error)
	ListCourtsByCampus(ctx context.Context, campusID string) ([]response.CourtResponse, error)
}

type courtService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCourtService(repo *repository.Repository, log *zap.Logger) CourtService {
	return &courtService{
		repo: repo,
		log:  log.With(zap.String("service", "court")),
	}
}

func (s *courtService) CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create court validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	campusID, err := uuid.Parse(req.CampusID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid campus ID %s", apperr.ErrInvalidInput, req.CampusID)
	}

	now := time.Now()
	court := &entity.Court{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CampusID:    campusID,
		CourtNumber: req.CourtNumber,
		Status:      entity.CourtStatusAvailable,
	}

	if err := s.repo.Court.Create(ctx, court); err != nil {
		return nil, err
	}

	s.log.Info("Court created",
		zap.String("court_id", court.ID.String()),
		zap.String("court_number", court.CourtNumber),
	)

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	id, err := uuid.Parse(courtID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid court ID %s", apperr.ErrInvalidInput, courtID)
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if court == nil {
		return nil, fmt.Errorf("court %s: %w", courtID, apperr.ErrNotFound)
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update court validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(courtID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid court ID %s", apperr.ErrInvalidInput, courtID)
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if court == nil {
		return nil, fmt.Errorf("court %s: %w", courtID, apperr.ErrNotFound)
	}

	if req.CourtNumber != nil {
		court.CourtNumber = *req.CourtNumber
	}
	if req.Status != nil {
		court.Status = entity.CourtStatus(*req.Status)
	}
	court.UpdatedAt = time.Now()

	if err := s.repo.Court.Update(ctx, court); err != nil {
		return nil, err
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) ListCourtsByCampus(ctx context.Context, campusID string) ([]response.CourtResponse, error) {
	id, err := uuid.Parse(campusID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid campus ID %s", apperr.ErrInvalidInput, campusID)
	}

	courts, err := s.repo.Court.ListByCampus(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]response.CourtResponse, 0, len(courts))
	for _, court := range courts {
		responses = append(responses, response.CourtToResponse(court))
	}

	return responses, nil
}
