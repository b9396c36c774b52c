package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleCoach   UserRole = "coach"
	RoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type CoachLevel string

const (
	CoachLevelJunior CoachLevel = "junior"
	CoachLevelMiddle CoachLevel = "middle"
	CoachLevelSenior CoachLevel = "senior"
)

// User is a flat account row with a role tag. Role-specific data lives in
// the optional profile pointers; exactly one of them is set for coach and
// student accounts, neither for admins.
type User struct {
	Base
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	RealName     string     `db:"real_name"`
	Phone        string     `db:"phone"`
	Email        string     `db:"email"`
	Role         UserRole   `db:"role"`
	Status       UserStatus `db:"status"`

	Coach   *CoachProfile
	Student *StudentProfile
}

// CoachProfile holds the coach-only columns from the coach table.
type CoachProfile struct {
	Level           CoachLevel      `db:"level"`
	HourlyRate      decimal.Decimal `db:"hourly_rate"`
	Awards          string          `db:"awards"`
	MaxStudents     int             `db:"max_students"`
	CurrentStudents int             `db:"current_students"`
}

// StudentProfile holds the student ledger: spendable balance plus the
// monthly cancellation counter and the month it applies to.
type StudentProfile struct {
	Balance         decimal.Decimal `db:"balance"`
	CancelCount     int             `db:"cancel_count"`
	LastCancelMonth *time.Time      `db:"last_cancel_month"`
}

func (u *User) IsCoach() bool   { return u.Role == RoleCoach }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
