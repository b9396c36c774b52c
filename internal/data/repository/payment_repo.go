package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/database"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
	// FindByRelatedBooking returns the latest payment of the given type
	// tied to a booking.
	FindByRelatedBooking(ctx context.Context, bookingID uuid.UUID, ptype entity.PaymentType) (*entity.Payment, error)
	// UpdateStatusByOrderID only moves an order that is still in the prior
	// status the caller observed, so a replayed gateway callback racing the
	// first one cannot repeat the transition.
	UpdateStatusByOrderID(ctx context.Context, orderID string, from, to entity.PaymentStatus) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	SumAmountByType(ctx context.Context, ptype entity.PaymentType) (decimal.Decimal, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, user_id, amount, payment_type, payment_method, order_id, status, related_id, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Amount,
		&p.Type,
		&p.Method,
		&p.OrderID,
		&p.Status,
		&p.RelatedID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, amount, payment_type, payment_method, order_id, status, related_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Amount,
		payment.Type,
		payment.Method,
		payment.OrderID,
		payment.Status,
		payment.RelatedID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("order_id", payment.OrderID),
			zap.String("type", string(payment.Type)),
		)
		return fmt.Errorf("create payment %s: %w", payment.OrderID, err)
	}

	return nil
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, orderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find payment by order ID %s: %w", orderID, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByRelatedBooking(ctx context.Context, bookingID uuid.UUID, ptype entity.PaymentType) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE related_id = $1 AND payment_type = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID, ptype))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("type", string(ptype)),
		)
		return nil, fmt.Errorf("find %s payment for booking %s: %w", string(ptype), bookingID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatusByOrderID(ctx context.Context, orderID string, from, to entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $3, updated_at = NOW() WHERE order_id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, orderID, from, to)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", orderID, string(to), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", orderID, string(from), apperr.ErrInvalidStateTransition)
	}

	return nil
}

func (r *paymentRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find payments by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find payments by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *paymentRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count payments", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count payments by user ID %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *paymentRepository) SumAmountByType(ctx context.Context, ptype entity.PaymentType) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_type = $1 AND status = 'success'`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, ptype).Scan(&total)
	if err != nil {
		r.log.Error("Failed to sum payments by type", zap.Error(err), zap.String("type", string(ptype)))
		return decimal.Zero, fmt.Errorf("sum payments by type %s: %w", string(ptype), err)
	}

	return total, nil
}
