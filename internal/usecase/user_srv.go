package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coach-booking/internal/data/repository"
	"coach-booking/internal/dto/request"
	"coach-booking/internal/dto/response"
	"coach-booking/pkg/apperr"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	GetCoach(ctx context.Context, coachID string) (*response.UserResponse, error)
	ListCoaches(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", apperr.ErrInvalidInput, userID)
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetCoach(ctx context.Context, coachID string) (*response.UserResponse, error) {
	id, err := uuid.Parse(coachID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coach ID %s", apperr.ErrInvalidInput, coachID)
	}

	coach, err := s.repo.User.FindCoachByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, fmt.Errorf("coach %s: %w", coachID, apperr.ErrNotFound)
	}

	resp := response.UserToResponse(coach)
	return &resp, nil
}

func (s *userService) ListCoaches(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	coaches, err := s.repo.User.ListCoaches(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.User.CountCoaches(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]response.UserResponse, 0, len(coaches))
	for _, coach := range coaches {
		responses = append(responses, response.UserToResponse(coach))
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}
