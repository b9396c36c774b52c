package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coach-booking/pkg/apperr"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one scheduled coaching session over the half-open window
// [StartTime, EndTime). Duration and Fee are derived at create/modify time
// and never client-supplied.
type Booking struct {
	Base
	CoachID   uuid.UUID       `db:"coach_id"`
	StudentID uuid.UUID       `db:"student_id"`
	CourtID   *uuid.UUID      `db:"court_id"`
	StartTime time.Time       `db:"start_time"`
	EndTime   time.Time       `db:"end_time"`
	Duration  decimal.Decimal `db:"duration"`
	Fee       decimal.Decimal `db:"fee"`
	Status    BookingStatus   `db:"status"`

	CancelReason string     `db:"cancel_reason"`
	CancelBy     *uuid.UUID `db:"cancel_by_user_id"`
	CancelTime   *time.Time `db:"cancel_time"`
}

// IsLive reports whether the booking still occupies its coach and court.
func (b *Booking) IsLive() bool {
	return b.Status != BookingStatusCancelled
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// Overlaps applies the half-open interval test: [s1,e1) and [s2,e2)
// overlap iff s1 < e2 && e1 > s2.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// CanTransitionTo encodes the lifecycle:
// pending -> confirmed -> completed, pending|confirmed -> cancelled.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

var sixty = decimal.NewFromInt(60)

// ComputeDuration returns the session length in hours, two decimals,
// rounded half-up from whole minutes.
func ComputeDuration(start, end time.Time) (decimal.Decimal, error) {
	if !end.After(start) {
		return decimal.Zero, apperr.ErrInvalidInterval
	}
	minutes := int64(end.Sub(start) / time.Minute)
	return decimal.NewFromInt(minutes).DivRound(sixty, 2), nil
}

// ComputeFee derives the session fee from the window and the coach's
// hourly rate, rounded half-up to two decimals.
func ComputeFee(start, end time.Time, hourlyRate decimal.Decimal) (decimal.Decimal, error) {
	duration, err := ComputeDuration(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return hourlyRate.Mul(duration).Round(2), nil
}
