package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/internal/dto/request"
	"coach-booking/internal/dto/response"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*entity.User, error)
	SweepSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Default hourly rates per coach level; admins can adjust later.
var levelRates = map[entity.CoachLevel]decimal.Decimal{
	entity.CoachLevelJunior: decimal.NewFromInt(80),
	entity.CoachLevelMiddle: decimal.NewFromInt(150),
	entity.CoachLevelSenior: decimal.NewFromInt(200),
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s: %w", req.Username, apperr.ErrAlreadyExists)
	}

	existing, err = s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s: %w", req.Email, apperr.ErrAlreadyExists)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		PasswordHash: hash,
		RealName:     req.RealName,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         entity.UserRole(req.Role),
		Status:       entity.UserStatusActive,
	}

	switch user.Role {
	case entity.RoleCoach:
		if req.Level == nil {
			return nil, fmt.Errorf("%w: coach registration requires a level", apperr.ErrInvalidInput)
		}
		level := entity.CoachLevel(*req.Level)
		profile := &entity.CoachProfile{
			Level:       level,
			HourlyRate:  levelRates[level],
			MaxStudents: 20,
		}
		if req.Awards != nil {
			profile.Awards = *req.Awards
		}
		user.Coach = profile

	case entity.RoleStudent:
		user.Student = &entity.StudentProfile{
			Balance: decimal.Zero,
		}
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid username or password", apperr.ErrInvalidInput)
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("account %s is %s: %w", user.Username, user.Status, apperr.ErrForbidden)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.repo.Session.Delete(ctx, token)
}

func (s *authService) ValidateSession(ctx context.Context, token string) (*entity.User, error) {
	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session: %w", apperr.ErrNotFound)
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("session user: %w", apperr.ErrNotFound)
	}

	return user, nil
}

func (s *authService) SweepSessions(ctx context.Context) (int64, error) {
	swept, err := s.repo.Session.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.log.Info("Swept expired sessions", zap.Int64("count", swept))
	}
	return swept, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
