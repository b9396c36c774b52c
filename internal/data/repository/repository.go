package repository

import (
	"context"

	"go.uber.org/zap"

	"coach-booking/pkg/database"
)

type Repository struct {
	User    UserRepository
	Court   CourtRepository
	Booking BookingRepository
	Ledger  LedgerRepository
	Payment PaymentRepository
	Session SessionRepository
	Lock    LockRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Court:   NewCourtRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Ledger:  NewLedgerRepository(db, log),
		Payment: NewPaymentRepository(db, log),
		Session: NewSessionRepository(db, log),
		Lock:    NewLockRepository(db, log),
	}
}

// UnitOfWork runs a function against transaction-bound repositories.
// Every mutating engine operation goes through Do so the conflict check and
// the write it guards commit or roll back together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r *Repository) error) error
}

type pgxUnitOfWork struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUnitOfWork(db database.PgxIface, log *zap.Logger) UnitOfWork {
	return &pgxUnitOfWork{db: db, log: log}
}

func (u *pgxUnitOfWork) Do(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		u.log.Error("Failed to begin transaction", zap.Error(err))
		return database.MapError(err)
	}
	// Rollback is a no-op once the tx committed.
	defer tx.Rollback(ctx)

	if err := fn(NewRepository(tx, u.log)); err != nil {
		return database.MapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		u.log.Error("Failed to commit transaction", zap.Error(err))
		return database.MapError(err)
	}

	return nil
}
