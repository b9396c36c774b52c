package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/database"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate locks the booking row for the rest of the
	// transaction. Every mutating lifecycle operation reads through it so
	// a concurrent transition waits here and then sees the committed status.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	// UpdateStatus and Cancel only move a row that is still in the prior
	// status the caller observed; a lost race surfaces as ErrStoreConflict
	// instead of silently repeating the transition.
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) error
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string, by uuid.UUID, at time.Time, from entity.BookingStatus) error

	// Conflict checks against live (non-cancelled) bookings.
	ExistsCoachOverlap(ctx context.Context, coachID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	ExistsCourtOverlap(ctx context.Context, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	FindByStudentID(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByStudentID(ctx context.Context, studentID uuid.UUID) (int64, error)
	FindByCoachID(ctx context.Context, coachID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	FindByCoachIDAndRange(ctx context.Context, coachID uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
	ListCompletedByParticipant(ctx context.Context, participantID uuid.UUID) ([]*entity.Booking, error)
	ListUpcoming(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
	SumCompletedFeesByCoach(ctx context.Context, coachID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, coach_id, student_id, court_id, start_time, end_time, duration, fee, status,
	cancel_reason, cancel_by_user_id, cancel_time, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	var cancelReason *string
	err := row.Scan(
		&b.ID,
		&b.CoachID,
		&b.StudentID,
		&b.CourtID,
		&b.StartTime,
		&b.EndTime,
		&b.Duration,
		&b.Fee,
		&b.Status,
		&cancelReason,
		&b.CancelBy,
		&b.CancelTime,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelReason != nil {
		b.CancelReason = *cancelReason
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, coach_id, student_id, court_id, start_time, end_time, duration, fee, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CoachID,
		booking.StudentID,
		booking.CourtID,
		booking.StartTime,
		booking.EndTime,
		booking.Duration,
		booking.Fee,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("coach_id", booking.CoachID.String()),
			zap.String("student_id", booking.StudentID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET court_id = $2, start_time = $3, end_time = $4, duration = $5, fee = $6,
		    status = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourtID,
		booking.StartTime,
		booking.EndTime,
		booking.Duration,
		booking.Fee,
		booking.Status,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", booking.ID.String(), apperr.ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, bookingID, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(to), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", bookingID.String(), string(from), apperr.ErrStoreConflict)
	}

	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, bookingID uuid.UUID, reason string, by uuid.UUID, at time.Time, from entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, cancel_reason = $3, cancel_by_user_id = $4, cancel_time = $5, updated_at = $5
		WHERE id = $1 AND status = $6
	`

	result, err := r.db.Exec(ctx, query, bookingID, entity.BookingStatusCancelled, reason, by, at, from)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", bookingID.String(), string(from), apperr.ErrStoreConflict)
	}

	return nil
}

func (r *bookingRepository) ExistsCoachOverlap(ctx context.Context, coachID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE coach_id = $1 AND status <> 'cancelled'
			  AND start_time < $3 AND end_time > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, coachID, start, end, excludeID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check coach overlap",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return false, fmt.Errorf("check coach overlap %s: %w", coachID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) ExistsCourtOverlap(ctx context.Context, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE court_id = $1 AND status <> 'cancelled'
			  AND start_time < $3 AND end_time > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, courtID, start, end, excludeID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check court overlap",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return false, fmt.Errorf("check court overlap %s: %w", courtID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) FindByStudentID(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.queryBookings(ctx, query, studentID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by student ID",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return nil, fmt.Errorf("find bookings by student ID %s: %w", studentID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByStudentID(ctx context.Context, studentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE student_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, studentID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by student ID",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return 0, fmt.Errorf("count bookings by student ID %s: %w", studentID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByCoachID(ctx context.Context, coachID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE coach_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.queryBookings(ctx, query, coachID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by coach ID",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return nil, fmt.Errorf("find bookings by coach ID %s: %w", coachID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByCoachIDAndRange(ctx context.Context, coachID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE coach_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	bookings, err := r.queryBookings(ctx, query, coachID, start, end)
	if err != nil {
		r.log.Error("Failed to find coach bookings in range",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return nil, fmt.Errorf("find coach %s bookings in range: %w", coachID.String(), err)
	}

	return bookings, nil
}

// ListCompletedByParticipant feeds the evaluation worklist: completed
// sessions where the given user was either side.
func (r *bookingRepository) ListCompletedByParticipant(ctx context.Context, participantID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (coach_id = $1 OR student_id = $1) AND status = 'completed'
		ORDER BY end_time DESC
	`

	bookings, err := r.queryBookings(ctx, query, participantID)
	if err != nil {
		r.log.Error("Failed to list completed bookings",
			zap.Error(err),
			zap.String("participant_id", participantID.String()),
		)
		return nil, fmt.Errorf("list completed bookings for %s: %w", participantID.String(), err)
	}

	return bookings, nil
}

// ListUpcoming returns confirmed bookings starting inside [from, to),
// used for session reminders.
func (r *bookingRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed' AND start_time >= $1 AND start_time < $2
		ORDER BY start_time
	`

	bookings, err := r.queryBookings(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to list upcoming bookings", zap.Error(err))
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) SumCompletedFeesByCoach(ctx context.Context, coachID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(fee), 0)
		FROM bookings
		WHERE coach_id = $1 AND status = 'completed' AND start_time >= $2 AND start_time < $3
	`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, coachID, start, end).Scan(&total)
	if err != nil {
		r.log.Error("Failed to sum completed fees",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return decimal.Zero, fmt.Errorf("sum completed fees for coach %s: %w", coachID.String(), err)
	}

	return total, nil
}
