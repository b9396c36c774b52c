package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coach-booking/pkg/database"
)

// Resource kinds for advisory locks.
const (
	ResourceCoach = "coach"
	ResourceCourt = "court"
)

// LockRepository serializes check-then-write sequences on a shared
// resource. AcquireResource must be called inside a transaction; the lock
// is released automatically at commit or rollback.
type LockRepository interface {
	AcquireResource(ctx context.Context, kind string, id uuid.UUID) error
}

type lockRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLockRepository(db database.Querier, log *zap.Logger) LockRepository {
	return &lockRepository{
		db:  db,
		log: log.With(zap.String("repository", "lock")),
	}
}

func (r *lockRepository) AcquireResource(ctx context.Context, kind string, id uuid.UUID) error {
	key := fmt.Sprintf("%s:%s", kind, id.String())

	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	if err != nil {
		r.log.Error("Failed to acquire resource lock",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	return nil
}
