package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/database"
)

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, court *entity.Court) error
	ListByCampus(ctx context.Context, campusID uuid.UUID) ([]*entity.Court, error)
}

type courtRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCourtRepository(db database.Querier, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (id, campus_id, court_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.CampusID,
		court.CourtNumber,
		court.Status,
		court.CreatedAt,
		court.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("court_number", court.CourtNumber),
		)
		return fmt.Errorf("create court %s: %w", court.CourtNumber, err)
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `
		SELECT id, campus_id, court_number, status, created_at, updated_at
		FROM courts
		WHERE id = $1
	`

	var court entity.Court
	err := r.db.QueryRow(ctx, query, id).Scan(
		&court.ID,
		&court.CampusID,
		&court.CourtNumber,
		&court.Status,
		&court.CreatedAt,
		&court.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return &court, nil
}

func (r *courtRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check court existence", zap.Error(err), zap.String("court_id", id.String()))
		return false, fmt.Errorf("check court %s: %w", id.String(), err)
	}
	return exists, nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET court_number = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, court.ID, court.CourtNumber, court.Status, court.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update court", zap.Error(err), zap.String("court_id", court.ID.String()))
		return fmt.Errorf("update court %s: %w", court.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s: %w", court.ID.String(), apperr.ErrNotFound)
	}

	return nil
}

func (r *courtRepository) ListByCampus(ctx context.Context, campusID uuid.UUID) ([]*entity.Court, error) {
	query := `
		SELECT id, campus_id, court_number, status, created_at, updated_at
		FROM courts
		WHERE campus_id = $1
		ORDER BY court_number
	`

	rows, err := r.db.Query(ctx, query, campusID)
	if err != nil {
		r.log.Error("Failed to list courts by campus",
			zap.Error(err),
			zap.String("campus_id", campusID.String()),
		)
		return nil, fmt.Errorf("list courts by campus %s: %w", campusID.String(), err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		var court entity.Court
		err := rows.Scan(
			&court.ID,
			&court.CampusID,
			&court.CourtNumber,
			&court.Status,
			&court.CreatedAt,
			&court.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan court row", zap.Error(err))
			return nil, fmt.Errorf("scan court row: %w", err)
		}
		courts = append(courts, &court)
	}

	return courts, rows.Err()
}
