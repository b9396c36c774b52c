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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, user *entity.User) error

	// Coach directory
	FindCoachByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetCoachHourlyRate(ctx context.Context, coachID uuid.UUID) (decimal.Decimal, error)
	ListCoaches(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountCoaches(ctx context.Context) (int64, error)

	FindStudentByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, password_hash, real_name, phone, email, role, status,
	level, hourly_rate, awards, max_students, current_students,
	balance, cancel_count, last_cancel_month, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var coach entity.CoachProfile
	var student entity.StudentProfile
	var level *entity.CoachLevel
	var hourlyRate, balance *decimal.Decimal
	var awards *string
	var maxStudents, currentStudents, cancelCount *int

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.RealName,
		&u.Phone,
		&u.Email,
		&u.Role,
		&u.Status,
		&level,
		&hourlyRate,
		&awards,
		&maxStudents,
		&currentStudents,
		&balance,
		&cancelCount,
		&student.LastCancelMonth,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch u.Role {
	case entity.RoleCoach:
		if level != nil {
			coach.Level = *level
		}
		if hourlyRate != nil {
			coach.HourlyRate = *hourlyRate
		}
		if awards != nil {
			coach.Awards = *awards
		}
		if maxStudents != nil {
			coach.MaxStudents = *maxStudents
		}
		if currentStudents != nil {
			coach.CurrentStudents = *currentStudents
		}
		u.Coach = &coach
	case entity.RoleStudent:
		if balance != nil {
			student.Balance = *balance
		}
		if cancelCount != nil {
			student.CancelCount = *cancelCount
		}
		u.Student = &student
	}

	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, real_name, phone, email, role, status,
			level, hourly_rate, awards, max_students, current_students,
			balance, cancel_count, last_cancel_month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var level *entity.CoachLevel
	var hourlyRate, balance *decimal.Decimal
	var awards *string
	var maxStudents, currentStudents, cancelCount *int

	if user.Coach != nil {
		level = &user.Coach.Level
		hourlyRate = &user.Coach.HourlyRate
		awards = &user.Coach.Awards
		maxStudents = &user.Coach.MaxStudents
		currentStudents = &user.Coach.CurrentStudents
	}
	var lastCancelMonth any
	if user.Student != nil {
		balance = &user.Student.Balance
		cancelCount = &user.Student.CancelCount
		lastCancelMonth = user.Student.LastCancelMonth
	}

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.RealName,
		user.Phone,
		user.Email,
		user.Role,
		user.Status,
		level,
		hourlyRate,
		awards,
		maxStudents,
		currentStudents,
		balance,
		cancelCount,
		lastCancelMonth,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		r.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		r.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check user existence", zap.Error(err), zap.String("user_id", id.String()))
		return false, fmt.Errorf("check user %s: %w", id.String(), err)
	}
	return exists, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET real_name = $2, phone = $3, email = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		user.ID,
		user.RealName,
		user.Phone,
		user.Email,
		user.Status,
		user.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID.String(), apperr.ErrNotFound)
	}

	return nil
}

func (r *userRepository) FindCoachByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND role = 'coach'`, id)
	if err != nil {
		r.log.Error("Failed to find coach", zap.Error(err), zap.String("coach_id", id.String()))
		return nil, fmt.Errorf("find coach %s: %w", id.String(), err)
	}
	return user, nil
}

func (r *userRepository) GetCoachHourlyRate(ctx context.Context, coachID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT hourly_rate FROM users WHERE id = $1 AND role = 'coach'`

	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, query, coachID).Scan(&rate)
	if err == pgx.ErrNoRows {
		return decimal.Zero, fmt.Errorf("coach %s: %w", coachID.String(), apperr.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to get coach hourly rate", zap.Error(err), zap.String("coach_id", coachID.String()))
		return decimal.Zero, fmt.Errorf("get hourly rate for coach %s: %w", coachID.String(), err)
	}

	return rate, nil
}

func (r *userRepository) ListCoaches(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'coach' AND status = 'active'
		ORDER BY username
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list coaches", zap.Error(err))
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	defer rows.Close()

	var coaches []*entity.User
	for rows.Next() {
		coach, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan coach row", zap.Error(err))
			return nil, fmt.Errorf("scan coach row: %w", err)
		}
		coaches = append(coaches, coach)
	}

	return coaches, rows.Err()
}

func (r *userRepository) CountCoaches(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'coach' AND status = 'active'`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count coaches", zap.Error(err))
		return 0, fmt.Errorf("count coaches: %w", err)
	}
	return count, nil
}

func (r *userRepository) FindStudentByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND role = 'student'`, id)
	if err != nil {
		r.log.Error("Failed to find student", zap.Error(err), zap.String("student_id", id.String()))
		return nil, fmt.Errorf("find student %s: %w", id.String(), err)
	}
	return user, nil
}
