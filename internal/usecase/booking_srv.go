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

// BookingService is the session booking and settlement engine. Every
// mutating operation runs as one unit of work: the conflict check, the
// status transition and any money movement commit or roll back together.
type BookingService interface {
	CreateBooking(ctx context.Context, studentID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ModifyBooking(ctx context.Context, bookingID string, req *request.ModifyBookingRequest) (*response.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*response.BookingResponse, error)
	RejectBooking(ctx context.Context, bookingID, coachID, reason string) (*response.BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetStudentBookings(ctx context.Context, studentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetCoachSchedule(ctx context.Context, coachID string, from, to time.Time) ([]response.BookingResponse, error)
	ListCompletedBookings(ctx context.Context, participantID string) ([]response.BookingResponse, error)
	ListUpcomingBookings(ctx context.Context, withinHours int) ([]response.BookingResponse, error)
	GetCoachMonthlyIncome(ctx context.Context, coachID string) (string, error)
}

type bookingService struct {
	repo   *repository.Repository
	uow    repository.UnitOfWork
	config *utils.Config
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, uow repository.UnitOfWork, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		uow:    uow,
		config: config,
		log:    log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, studentID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	studentUUID, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid student ID %s", apperr.ErrInvalidInput, studentID)
	}

	coachUUID, err := uuid.Parse(req.CoachID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coach ID %s", apperr.ErrInvalidInput, req.CoachID)
	}

	var courtUUID *uuid.UUID
	if req.CourtID != nil {
		id, err := uuid.Parse(*req.CourtID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid court ID %s", apperr.ErrInvalidInput, *req.CourtID)
		}
		courtUUID = &id
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, apperr.ErrInvalidInterval
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		student, err := r.User.FindStudentByID(ctx, studentUUID)
		if err != nil {
			return err
		}
		if student == nil {
			return fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
		}

		coach, err := r.User.FindCoachByID(ctx, coachUUID)
		if err != nil {
			return err
		}
		if coach == nil {
			return fmt.Errorf("coach %s: %w", req.CoachID, apperr.ErrNotFound)
		}

		// Serialize against concurrent bookings on the same coach (and
		// court) before the overlap check; the lock spans the insert.
		if err := r.Lock.AcquireResource(ctx, repository.ResourceCoach, coachUUID); err != nil {
			return err
		}

		if courtUUID != nil {
			exists, err := r.Court.ExistsByID(ctx, *courtUUID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("court %s: %w", *req.CourtID, apperr.ErrNotFound)
			}
			if err := r.Lock.AcquireResource(ctx, repository.ResourceCourt, *courtUUID); err != nil {
				return err
			}
		}

		conflict, err := r.Booking.ExistsCoachOverlap(ctx, coachUUID, req.StartTime, req.EndTime, nil)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("coach %s is booked in that window: %w", req.CoachID, apperr.ErrTimeConflict)
		}

		if courtUUID != nil {
			conflict, err := r.Booking.ExistsCourtOverlap(ctx, *courtUUID, req.StartTime, req.EndTime, nil)
			if err != nil {
				return err
			}
			if conflict {
				return fmt.Errorf("court %s is occupied in that window: %w", *req.CourtID, apperr.ErrTimeConflict)
			}
		}

		duration, err := entity.ComputeDuration(req.StartTime, req.EndTime)
		if err != nil {
			return err
		}
		fee, err := entity.ComputeFee(req.StartTime, req.EndTime, coach.Coach.HourlyRate)
		if err != nil {
			return err
		}

		now := time.Now()
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			CoachID:   coachUUID,
			StudentID: studentUUID,
			CourtID:   courtUUID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Duration:  duration,
			Fee:       fee,
			Status:    entity.BookingStatusPending,
		}

		return r.Booking.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("coach_id", req.CoachID),
		zap.String("student_id", studentID),
		zap.String("fee", booking.Fee.StringFixed(2)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ModifyBooking(ctx context.Context, bookingID string, req *request.ModifyBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Modify booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	var newCourtUUID *uuid.UUID
	if req.CourtID != nil {
		courtID, err := uuid.Parse(*req.CourtID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid court ID %s", apperr.ErrInvalidInput, *req.CourtID)
		}
		newCourtUUID = &courtID
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
		}

		// Only a pending booking can be reshaped.
		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, apperr.ErrInvalidStateTransition)
		}

		if req.StartTime != nil {
			booking.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			booking.EndTime = *req.EndTime
		}
		if newCourtUUID != nil {
			exists, err := r.Court.ExistsByID(ctx, *newCourtUUID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("court %s: %w", *req.CourtID, apperr.ErrNotFound)
			}
			booking.CourtID = newCourtUUID
		}

		if !booking.EndTime.After(booking.StartTime) {
			return apperr.ErrInvalidInterval
		}

		if err := r.Lock.AcquireResource(ctx, repository.ResourceCoach, booking.CoachID); err != nil {
			return err
		}
		if booking.CourtID != nil {
			if err := r.Lock.AcquireResource(ctx, repository.ResourceCourt, *booking.CourtID); err != nil {
				return err
			}
		}

		// Re-run both conflict checks, excluding the booking itself.
		conflict, err := r.Booking.ExistsCoachOverlap(ctx, booking.CoachID, booking.StartTime, booking.EndTime, &booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("coach is booked in that window: %w", apperr.ErrTimeConflict)
		}

		if booking.CourtID != nil {
			conflict, err := r.Booking.ExistsCourtOverlap(ctx, *booking.CourtID, booking.StartTime, booking.EndTime, &booking.ID)
			if err != nil {
				return err
			}
			if conflict {
				return fmt.Errorf("court is occupied in that window: %w", apperr.ErrTimeConflict)
			}
		}

		rate, err := r.User.GetCoachHourlyRate(ctx, booking.CoachID)
		if err != nil {
			return err
		}

		booking.Duration, err = entity.ComputeDuration(booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		booking.Fee, err = entity.ComputeFee(booking.StartTime, booking.EndTime, rate)
		if err != nil {
			return err
		}
		booking.UpdatedAt = time.Now()

		return r.Booking.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking modified",
		zap.String("booking_id", bookingID),
		zap.String("fee", booking.Fee.StringFixed(2)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
		}

		if !booking.CanTransitionTo(entity.BookingStatusConfirmed) {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, apperr.ErrInvalidStateTransition)
		}

		// Conditional debit: fails with ErrInsufficientBalance and the
		// booking stays pending.
		if err := r.Ledger.Debit(ctx, booking.StudentID, booking.Fee); err != nil {
			return err
		}

		now := time.Now()
		payment := &entity.Payment{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID:    booking.StudentID,
			Amount:    booking.Fee,
			Type:      entity.PaymentTypeCourseFee,
			Method:    entity.PaymentMethodOffline,
			OrderID:   utils.GenerateOrderID(),
			Status:    entity.PaymentStatusSuccess,
			RelatedID: &booking.ID,
		}
		if err := r.Payment.Create(ctx, payment); err != nil {
			return err
		}

		if err := r.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusConfirmed); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusConfirmed
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("fee", booking.Fee.StringFixed(2)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*response.BookingResponse, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", apperr.ErrInvalidInput)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid actor ID %s", apperr.ErrInvalidInput, actorID)
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
		}

		exists, err := r.User.ExistsByID(ctx, actorUUID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("user %s: %w", actorID, apperr.ErrNotFound)
		}

		if booking.IsTerminal() {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, apperr.ErrInvalidStateTransition)
		}

		now := time.Now()
		prior := booking.Status

		if prior == entity.BookingStatusConfirmed {
			window := time.Duration(s.config.Booking.CancelWindowHours) * time.Hour
			if now.After(booking.StartTime.Add(-window)) {
				return fmt.Errorf("booking %s starts at %s: %w",
					bookingID, booking.StartTime.Format(time.RFC3339), apperr.ErrCancellationWindowExpired)
			}

			if actorUUID == booking.StudentID {
				count, err := r.Ledger.GetMonthlyCancelCount(ctx, booking.StudentID)
				if err != nil {
					return err
				}
				if count >= s.config.Booking.MonthlyCancelLimit {
					return fmt.Errorf("monthly cancellation limit of %d reached: %w",
						s.config.Booking.MonthlyCancelLimit, apperr.ErrForbidden)
				}
			}
		}

		// Take the row out of its prior status before any money moves; if
		// another transaction already moved it, nothing is refunded.
		if err := r.Booking.Cancel(ctx, booking.ID, reason, actorUUID, now, prior); err != nil {
			return err
		}

		if prior == entity.BookingStatusConfirmed {
			// Refund exactly what the confirmation debited.
			refundAmount := booking.Fee
			refundMethod := entity.PaymentMethodOffline
			courseFee, err := r.Payment.FindByRelatedBooking(ctx, booking.ID, entity.PaymentTypeCourseFee)
			if err != nil {
				return err
			}
			if courseFee != nil {
				refundAmount = courseFee.Amount
				refundMethod = courseFee.Method
			}

			refund := &entity.Payment{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				UserID:    booking.StudentID,
				Amount:    refundAmount,
				Type:      entity.PaymentTypeRefund,
				Method:    refundMethod,
				OrderID:   utils.GenerateOrderID(),
				Status:    entity.PaymentStatusSuccess,
				RelatedID: &booking.ID,
			}
			if err := r.Payment.Create(ctx, refund); err != nil {
				return err
			}
			if err := r.Ledger.Credit(ctx, booking.StudentID, refundAmount); err != nil {
				return err
			}

			if actorUUID == booking.StudentID {
				if err := r.Ledger.IncrementMonthlyCancelCount(ctx, booking.StudentID); err != nil {
					return err
				}
			}
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelReason = reason
		booking.CancelBy = &actorUUID
		booking.CancelTime = &now
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID),
		zap.String("reason", reason),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, bookingID, coachID, reason string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	coachUUID, err := uuid.Parse(coachID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coach ID %s", apperr.ErrInvalidInput, coachID)
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
		}

		if booking.CoachID != coachUUID {
			return fmt.Errorf("booking %s belongs to another coach: %w", bookingID, apperr.ErrForbidden)
		}

		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, apperr.ErrInvalidStateTransition)
		}

		now := time.Now()
		fullReason := "rejected by coach: " + reason

		if err := r.Booking.Cancel(ctx, booking.ID, fullReason, coachUUID, now, entity.BookingStatusPending); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelReason = fullReason
		booking.CancelBy = &coachUUID
		booking.CancelTime = &now
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking rejected",
		zap.String("booking_id", bookingID),
		zap.String("coach_id", coachID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	var booking *entity.Booking

	err = s.uow.Do(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
		}

		if !booking.CanTransitionTo(entity.BookingStatusCompleted) {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, apperr.ErrInvalidStateTransition)
		}

		if err := r.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed, entity.BookingStatusCompleted); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusCompleted
		booking.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking completed", zap.String("booking_id", bookingID))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ==================== QUERIES ====================

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", apperr.ErrInvalidInput, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetStudentBookings(ctx context.Context, studentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	studentUUID, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid student ID %s", apperr.ErrInvalidInput, studentID)
	}

	bookings, err := s.repo.Booking.FindByStudentID(ctx, studentUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByStudentID(ctx, studentUUID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetCoachSchedule(ctx context.Context, coachID string, from, to time.Time) ([]response.BookingResponse, error) {
	coachUUID, err := uuid.Parse(coachID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coach ID %s", apperr.ErrInvalidInput, coachID)
	}

	exists, err := s.repo.User.ExistsByID(ctx, coachUUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("coach %s: %w", coachID, apperr.ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindByCoachIDAndRange(ctx, coachUUID, from, to)
	if err != nil {
		return nil, err
	}

	return response.BookingsToResponse(bookings), nil
}

// ListCompletedBookings feeds the evaluation subsystem with completed
// sessions for either participant role.
func (s *bookingService) ListCompletedBookings(ctx context.Context, participantID string) ([]response.BookingResponse, error) {
	participantUUID, err := uuid.Parse(participantID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid participant ID %s", apperr.ErrInvalidInput, participantID)
	}

	bookings, err := s.repo.Booking.ListCompletedByParticipant(ctx, participantUUID)
	if err != nil {
		return nil, err
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) ListUpcomingBookings(ctx context.Context, withinHours int) ([]response.BookingResponse, error) {
	if withinHours <= 0 {
		withinHours = 1
	}

	now := time.Now()
	bookings, err := s.repo.Booking.ListUpcoming(ctx, now, now.Add(time.Duration(withinHours)*time.Hour))
	if err != nil {
		return nil, err
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetCoachMonthlyIncome(ctx context.Context, coachID string) (string, error) {
	coachUUID, err := uuid.Parse(coachID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid coach ID %s", apperr.ErrInvalidInput, coachID)
	}

	exists, err := s.repo.User.ExistsByID(ctx, coachUUID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("coach %s: %w", coachID, apperr.ErrNotFound)
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	total, err := s.repo.Booking.SumCompletedFeesByCoach(ctx, coachUUID, startOfMonth, endOfMonth)
	if err != nil {
		return "", err
	}

	return total.Round(2).StringFixed(2), nil
}
