package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"coach-booking/pkg/apperr"
	"coach-booking/pkg/database"
)

// LedgerRepository mutates a student's balance and monthly cancellation
// counter. Debit checks and decrements in a single statement so two
// concurrent confirmations can never both spend the same balance.
type LedgerRepository interface {
	Debit(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) error
	GetBalance(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error)

	// Monthly counter, reset when the stored month differs from the
	// current one. Both calls lock the row for the rest of the transaction.
	GetMonthlyCancelCount(ctx context.Context, studentID uuid.UUID) (int, error)
	IncrementMonthlyCancelCount(ctx context.Context, studentID uuid.UUID) error
}

type ledgerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLedgerRepository(db database.Querier, log *zap.Logger) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: log.With(zap.String("repository", "ledger")),
	}
}

func (r *ledgerRepository) Debit(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND role = 'student' AND balance >= $2
	`

	result, err := r.db.Exec(ctx, query, studentID, amount)
	if err != nil {
		r.log.Error("Failed to debit balance",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
			zap.String("amount", amount.String()),
		)
		return fmt.Errorf("debit student %s: %w", studentID.String(), err)
	}

	if result.RowsAffected() == 0 {
		// Either the student does not exist or the balance guard failed;
		// disambiguate so the caller gets the right error kind.
		exists, err := r.studentExists(ctx, studentID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("student %s: %w", studentID.String(), apperr.ErrNotFound)
		}
		return fmt.Errorf("debit %s from student %s: %w", amount.String(), studentID.String(), apperr.ErrInsufficientBalance)
	}

	return nil
}

func (r *ledgerRepository) studentExists(ctx context.Context, studentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = 'student')`,
		studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check student %s: %w", studentID.String(), err)
	}
	return exists, nil
}

func (r *ledgerRepository) Credit(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND role = 'student'
	`

	result, err := r.db.Exec(ctx, query, studentID, amount)
	if err != nil {
		r.log.Error("Failed to credit balance",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
			zap.String("amount", amount.String()),
		)
		return fmt.Errorf("credit student %s: %w", studentID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student %s: %w", studentID.String(), apperr.ErrNotFound)
	}

	return nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT balance FROM users WHERE id = $1 AND role = 'student'`

	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, studentID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, fmt.Errorf("student %s: %w", studentID.String(), apperr.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to get balance",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return decimal.Zero, fmt.Errorf("get balance for student %s: %w", studentID.String(), err)
	}

	return balance, nil
}

func (r *ledgerRepository) GetMonthlyCancelCount(ctx context.Context, studentID uuid.UUID) (int, error) {
	count, _, err := r.lockAndRollover(ctx, studentID)
	return count, err
}

func (r *ledgerRepository) IncrementMonthlyCancelCount(ctx context.Context, studentID uuid.UUID) error {
	_, month, err := r.lockAndRollover(ctx, studentID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET cancel_count = cancel_count + 1, last_cancel_month = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, studentID, month); err != nil {
		r.log.Error("Failed to increment cancel count",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return fmt.Errorf("increment cancel count for student %s: %w", studentID.String(), err)
	}

	return nil
}

// lockAndRollover locks the student row, resets the counter when the
// stored month is stale, and returns the current count and month start.
func (r *ledgerRepository) lockAndRollover(ctx context.Context, studentID uuid.UUID) (int, time.Time, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT cancel_count, last_cancel_month
		FROM users
		WHERE id = $1 AND role = 'student'
		FOR UPDATE
	`

	var count int
	var lastMonth *time.Time
	err := r.db.QueryRow(ctx, query, studentID).Scan(&count, &lastMonth)
	if err == pgx.ErrNoRows {
		return 0, monthStart, fmt.Errorf("student %s: %w", studentID.String(), apperr.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to read cancel count",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return 0, monthStart, fmt.Errorf("read cancel count for student %s: %w", studentID.String(), err)
	}

	if lastMonth == nil || lastMonth.UTC().Year() != monthStart.Year() || lastMonth.UTC().Month() != monthStart.Month() {
		reset := `UPDATE users SET cancel_count = 0, last_cancel_month = $2, updated_at = NOW() WHERE id = $1`
		if _, err := r.db.Exec(ctx, reset, studentID, monthStart); err != nil {
			return 0, monthStart, fmt.Errorf("reset cancel count for student %s: %w", studentID.String(), err)
		}
		count = 0
	}

	return count, monthStart, nil
}
