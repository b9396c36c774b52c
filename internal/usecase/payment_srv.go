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

type PaymentService interface {
	// Recharge opens a pending top-up order; the balance only moves when
	// the gateway confirms via ProcessGatewayCallback.
	Recharge(ctx context.Context, studentID string, req *request.RechargeRequest) (*response.PaymentResponse, error)
	ProcessGatewayCallback(ctx context.Context, req *request.GatewayCallbackRequest) (*response.PaymentResponse, error)
	GetBalance(ctx context.Context, studentID string) (*response.BalanceResponse, error)
	GetUserPayments(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
	GetRevenueSummary(ctx context.Context) (*response.RevenueSummaryResponse, error)
}

type paymentService struct {
	repo *repository.Repository
	uow  repository.UnitOfWork
	log  *zap.Logger
}

func NewPaymentService(repo *repository.Repository, uow repository.UnitOfWork, log *zap.Logger) PaymentService {
	return &paymentService{
		repo: repo,
		uow:  uow,
		log:  log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Recharge(ctx context.Context, studentID string, req *request.RechargeRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Recharge validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	studentUUID, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid student ID %s", apperr.ErrInvalidInput, studentID)
	}

	student, err := s.repo.User.FindStudentByID(ctx, studentUUID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  studentUUID,
		Amount:  amount,
		Type:    entity.PaymentTypeRecharge,
		Method:  entity.PaymentMethod(req.Method),
		OrderID: utils.GenerateOrderID(),
		Status:  entity.PaymentStatusPending,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("Recharge order created",
		zap.String("order_id", payment.OrderID),
		zap.String("student_id", studentID),
		zap.String("amount", amount.StringFixed(2)),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) ProcessGatewayCallback(ctx context.Context, req *request.GatewayCallbackRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Gateway callback validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var payment *entity.Payment

	err := s.uow.Do(ctx, func(r *repository.Repository) error {
		var err error
		payment, err = r.Payment.FindByOrderID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if payment == nil {
			return fmt.Errorf("order %s: %w", req.OrderID, apperr.ErrNotFound)
		}

		// Callbacks are retried by gateways; only a pending order moves.
		if payment.Status != entity.PaymentStatusPending {
			return fmt.Errorf("order %s already %s: %w", req.OrderID, payment.Status, apperr.ErrInvalidStateTransition)
		}

		if req.Result == "failed" {
			if err := r.Payment.UpdateStatusByOrderID(ctx, req.OrderID, entity.PaymentStatusPending, entity.PaymentStatusFailed); err != nil {
				return err
			}
			payment.Status = entity.PaymentStatusFailed
			return nil
		}

		// Flip the order out of pending before touching the balance; a
		// racing retry of the same callback fails here and credits nothing.
		if err := r.Payment.UpdateStatusByOrderID(ctx, req.OrderID, entity.PaymentStatusPending, entity.PaymentStatusSuccess); err != nil {
			return err
		}

		if payment.Type == entity.PaymentTypeRecharge || payment.Type == entity.PaymentTypeRefund {
			if err := r.Ledger.Credit(ctx, payment.UserID, payment.Amount); err != nil {
				return err
			}
		}

		payment.Status = entity.PaymentStatusSuccess
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Gateway callback processed",
		zap.String("order_id", req.OrderID),
		zap.String("result", req.Result),
		zap.String("type", string(payment.Type)),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetBalance(ctx context.Context, studentID string) (*response.BalanceResponse, error) {
	studentUUID, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid student ID %s", apperr.ErrInvalidInput, studentID)
	}

	balance, err := s.repo.Ledger.GetBalance(ctx, studentUUID)
	if err != nil {
		return nil, err
	}

	return &response.BalanceResponse{
		StudentID: studentID,
		Balance:   balance.StringFixed(2),
	}, nil
}

func (s *paymentService) GetUserPayments(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", apperr.ErrInvalidInput, userID)
	}

	payments, err := s.repo.Payment.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Payment.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	responses := make([]response.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, response.PaymentToResponse(p))
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

// GetRevenueSummary totals successful transactions per type, the admin
// money overview.
func (s *paymentService) GetRevenueSummary(ctx context.Context) (*response.RevenueSummaryResponse, error) {
	recharges, err := s.repo.Payment.SumAmountByType(ctx, entity.PaymentTypeRecharge)
	if err != nil {
		return nil, err
	}

	courseFees, err := s.repo.Payment.SumAmountByType(ctx, entity.PaymentTypeCourseFee)
	if err != nil {
		return nil, err
	}

	refunds, err := s.repo.Payment.SumAmountByType(ctx, entity.PaymentTypeRefund)
	if err != nil {
		return nil, err
	}

	return &response.RevenueSummaryResponse{
		Recharges:  recharges.StringFixed(2),
		CourseFees: courseFees.StringFixed(2),
		Refunds:    refunds.StringFixed(2),
	}, nil
}
