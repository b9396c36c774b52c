package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/internal/dto/request"
	"coach-booking/internal/dto/response"
	"coach-booking/internal/usecase"
	"coach-booking/pkg/apperr"
	"coach-booking/pkg/utils"
)

type engineEnv struct {
	store   *memStore
	svc     usecase.BookingService
	coach   *entity.User
	student *entity.User
	court   *entity.Court
}

func engineConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			CancelWindowHours:  24,
			MonthlyCancelLimit: 3,
		},
	}
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()

	store := newMemStore()
	repo := newMemRepository(store)
	uow := &memUnitOfWork{repo: repo}
	config := engineConfig()

	env := &engineEnv{
		store: store,
		svc:   usecase.NewBookingService(repo, uow, config, zap.NewNop()),
	}

	now := time.Now()
	env.coach = &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "coach_wang",
		RealName: "Wang",
		Role:     entity.RoleCoach,
		Status:   entity.UserStatusActive,
		Coach: &entity.CoachProfile{
			Level:      entity.CoachLevelJunior,
			HourlyRate: decimal.NewFromInt(80),
		},
	}
	env.student = &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "student_li",
		RealName: "Li",
		Role:     entity.RoleStudent,
		Status:   entity.UserStatusActive,
		Student: &entity.StudentProfile{
			Balance: decimal.NewFromInt(100),
		},
	}
	env.court = &entity.Court{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CampusID:    uuid.New(),
		CourtNumber: "A-01",
		Status:      entity.CourtStatusAvailable,
	}

	store.users[env.coach.ID] = env.coach
	store.users[env.student.ID] = env.student
	store.courts[env.court.ID] = env.court

	return env
}

// sessionWindow returns a one-hour window starting comfortably outside
// the cancellation window.
func sessionWindow(hoursFromNow int) (time.Time, time.Time) {
	start := time.Now().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Minute)
	return start, start.Add(time.Hour)
}

func (env *engineEnv) create(t *testing.T, start, end time.Time) *response.BookingResponse {
	t.Helper()
	booking, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return booking
}

func (env *engineEnv) balance() decimal.Decimal {
	return env.student.Student.Balance
}

func TestCreateBookingComputesFee(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)

	booking := env.create(t, start, end)

	assert.Equal(t, "pending", string(booking.Status))
	assert.Equal(t, "1.00", booking.Duration)
	assert.Equal(t, "80.00", booking.Fee)
	// Creation alone never touches the balance.
	assert.True(t, env.balance().Equal(decimal.NewFromInt(100)))
}

func TestCreateBookingFeeRounding(t *testing.T) {
	env := newEngineEnv(t)
	env.coach.Coach.HourlyRate = decimal.NewFromInt(100)

	start, _ := sessionWindow(72)
	booking := env.create(t, start, start.Add(50*time.Minute))

	// 50 minutes -> 0.83 hours -> 83.00
	assert.Equal(t, "0.83", booking.Duration)
	assert.Equal(t, "83.00", booking.Fee)
}

func TestCreateBookingInvalidInterval(t *testing.T) {
	env := newEngineEnv(t)
	start, _ := sessionWindow(72)

	_, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		StartTime: start,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInterval)

	_, err = env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInterval)
}

func TestCreateBookingCoachConflict(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	env.create(t, start, end)

	_, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		StartTime: start.Add(30 * time.Minute),
		EndTime:   end.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, apperr.ErrTimeConflict)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	env.create(t, start, end)

	// [end, end+1h) shares only the boundary instant with [start, end).
	booking, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		StartTime: end,
		EndTime:   end.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", string(booking.Status))
}

func TestCreateBookingCourtConflict(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	courtID := env.court.ID.String()

	_, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		CourtID:   &courtID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)

	// Different coach, same court, overlapping window.
	otherCoach := &entity.User{
		Base:   entity.Base{ID: uuid.New()},
		Role:   entity.RoleCoach,
		Status: entity.UserStatusActive,
		Coach: &entity.CoachProfile{
			Level:      entity.CoachLevelMiddle,
			HourlyRate: decimal.NewFromInt(150),
		},
	}
	env.store.users[otherCoach.ID] = otherCoach

	_, err = env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   otherCoach.ID.String(),
		CourtID:   &courtID,
		StartTime: start.Add(30 * time.Minute),
		EndTime:   end.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, apperr.ErrTimeConflict)
}

func TestCreateBookingCancelledDoesNotBlock(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "changed my mind")
	require.NoError(t, err)

	// The slot is free again.
	env.create(t, start, end)
}

func TestConfirmBookingDebitsBalance(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	confirmed, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", string(confirmed.Status))
	assert.True(t, env.balance().Equal(decimal.NewFromInt(20)),
		"balance is %s, want 20", env.balance())

	// Exactly one successful course-fee payment tied to the booking.
	require.Len(t, env.store.payments, 1)
	payment := env.store.payments[0]
	assert.Equal(t, entity.PaymentTypeCourseFee, payment.Type)
	assert.Equal(t, entity.PaymentStatusSuccess, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(80)))
}

func TestConfirmBookingInsufficientBalance(t *testing.T) {
	env := newEngineEnv(t)
	env.student.Student.Balance = decimal.NewFromInt(50)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, apperr.ErrInsufficientBalance)

	// Booking stays pending, nothing was charged.
	stored := env.store.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, entity.BookingStatusPending, stored.Status)
	assert.True(t, env.balance().Equal(decimal.NewFromInt(50)))
	assert.Empty(t, env.store.payments)
}

func TestConfirmBookingTwice(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.ConfirmBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	// No double charge.
	assert.True(t, env.balance().Equal(decimal.NewFromInt(20)))
	assert.Len(t, env.store.payments, 1)
}

func TestCancelPendingBookingNoRefund(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	cancelled, err := env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "schedule clash")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", string(cancelled.Status))
	assert.True(t, env.balance().Equal(decimal.NewFromInt(100)))
	assert.Empty(t, env.store.payments)

	stored := env.store.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, "schedule clash", stored.CancelReason)
	require.NotNil(t, stored.CancelBy)
	assert.Equal(t, env.student.ID, *stored.CancelBy)
	assert.NotNil(t, stored.CancelTime)
}

func TestCancelConfirmedBookingRefunds(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.True(t, env.balance().Equal(decimal.NewFromInt(20)))

	cancelled, err := env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "injury")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", string(cancelled.Status))
	assert.True(t, env.balance().Equal(decimal.NewFromInt(100)),
		"balance is %s, want full refund back to 100", env.balance())

	// Course fee plus matching refund, method copied over.
	require.Len(t, env.store.payments, 2)
	refund := env.store.payments[1]
	assert.Equal(t, entity.PaymentTypeRefund, refund.Type)
	assert.Equal(t, env.store.payments[0].Method, refund.Method)
	assert.True(t, refund.Amount.Equal(env.store.payments[0].Amount))

	// Student-initiated cancellation bumps the monthly counter.
	assert.Equal(t, 1, env.student.Student.CancelCount)
}

func TestCancelConfirmedBookingWindowExpired(t *testing.T) {
	env := newEngineEnv(t)
	// Starts in 10 hours, inside the 24h window.
	start, end := sessionWindow(10)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "too late")
	assert.ErrorIs(t, err, apperr.ErrCancellationWindowExpired)

	// Still confirmed, money stays moved.
	stored := env.store.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	assert.True(t, env.balance().Equal(decimal.NewFromInt(20)))
}

func TestCancelPendingInsideWindowAllowed(t *testing.T) {
	env := newEngineEnv(t)
	// The window guard applies only once money moved.
	start, end := sessionWindow(2)
	booking := env.create(t, start, end)

	_, err := env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "still pending")
	require.NoError(t, err)
}

func TestCancelBookingMonthlyLimit(t *testing.T) {
	env := newEngineEnv(t)
	env.student.Student.Balance = decimal.NewFromInt(1000)
	env.student.Student.CancelCount = 3
	env.store.cancelMonths[env.student.ID] = time.Now()

	start, end := sessionWindow(72)
	booking := env.create(t, start, end)
	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "one too many")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Coach-initiated cancellation is not counted against the student.
	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.coach.ID.String(), "coach unavailable")
	require.NoError(t, err)
	assert.Equal(t, 3, env.student.Student.CancelCount)
}

func TestCancelCountRollsOverNewMonth(t *testing.T) {
	env := newEngineEnv(t)
	env.student.Student.Balance = decimal.NewFromInt(1000)

	// Three cancellations last month do not count against this month.
	env.student.Student.CancelCount = 3
	env.store.cancelMonths[env.student.ID] = time.Now().AddDate(0, -1, 0)

	start, end := sessionWindow(72)
	booking := env.create(t, start, end)
	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "fresh month")
	require.NoError(t, err)
	assert.Equal(t, 1, env.student.Student.CancelCount)
}

func TestCancelTerminalBooking(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	_, err = env.svc.CompleteBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "too late")
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
}

func TestCompleteBooking(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	// Pending cannot complete.
	_, err := env.svc.CompleteBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	_, err = env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	completed, err := env.svc.CompleteBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", string(completed.Status))
}

func TestModifyBookingRecomputesFee(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	newEnd := end.Add(30 * time.Minute)
	modified, err := env.svc.ModifyBooking(context.Background(), booking.ID, &request.ModifyBookingRequest{
		EndTime: &newEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.50", modified.Duration)
	assert.Equal(t, "120.00", modified.Fee)
}

func TestModifyBookingExcludesSelfFromConflict(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	// Shifting within its own window must not conflict with itself.
	newStart := start.Add(15 * time.Minute)
	_, err := env.svc.ModifyBooking(context.Background(), booking.ID, &request.ModifyBookingRequest{
		StartTime: &newStart,
	})
	require.NoError(t, err)
}

func TestModifyBookingConflictsWithOther(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	env.create(t, start, end)
	second := env.create(t, end, end.Add(time.Hour))

	overlap := start.Add(30 * time.Minute)
	_, err := env.svc.ModifyBooking(context.Background(), second.ID, &request.ModifyBookingRequest{
		StartTime: &overlap,
	})
	assert.ErrorIs(t, err, apperr.ErrTimeConflict)
}

func TestModifyConfirmedBookingRejected(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	newEnd := end.Add(time.Hour)
	_, err = env.svc.ModifyBooking(context.Background(), booking.ID, &request.ModifyBookingRequest{
		EndTime: &newEnd,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
}

func TestRejectBooking(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	rejected, err := env.svc.RejectBooking(context.Background(), booking.ID, env.coach.ID.String(), "fully booked that day")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", string(rejected.Status))
	stored := env.store.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, "rejected by coach: fully booked that day", stored.CancelReason)
}

func TestRejectBookingWrongCoach(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	otherCoach := uuid.New().String()
	env.store.users[uuid.MustParse(otherCoach)] = &entity.User{
		Base: entity.Base{ID: uuid.MustParse(otherCoach)},
		Role: entity.RoleCoach,
	}

	_, err := env.svc.RejectBooking(context.Background(), booking.ID, otherCoach, "not mine")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCancelBookingTwice(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "injury")
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "injury again")
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	// One refund only, balance restored exactly once.
	require.Len(t, env.store.payments, 2)
	assert.True(t, env.balance().Equal(decimal.NewFromInt(100)),
		"balance is %s, want 100", env.balance())
	assert.Equal(t, 1, env.student.Student.CancelCount)
}

// staleBookingRepo serves a snapshot taken before a concurrent commit,
// standing in for a transaction whose read predates that commit.
type staleBookingRepo struct {
	repository.BookingRepository
	stale *entity.Booking
}

func (r *staleBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if r.stale != nil && r.stale.ID == id {
		snap := *r.stale
		return &snap, nil
	}
	return r.BookingRepository.FindByIDForUpdate(ctx, id)
}

func (env *engineEnv) staleService(stale *entity.Booking) usecase.BookingService {
	repo := newMemRepository(env.store)
	repo.Booking = &staleBookingRepo{BookingRepository: repo.Booking, stale: stale}
	return usecase.NewBookingService(repo, &memUnitOfWork{repo: repo}, engineConfig(), zap.NewNop())
}

func TestCancelBookingLostRaceRefundsOnce(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	// A second canceller reads the booking while it is still confirmed...
	snap := *env.store.bookings[uuid.MustParse(booking.ID)]
	loser := env.staleService(&snap)

	// ...then the first cancellation commits.
	_, err = env.svc.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "injury")
	require.NoError(t, err)
	require.Len(t, env.store.payments, 2)
	require.True(t, env.balance().Equal(decimal.NewFromInt(100)))

	// The loser's conditional status flip fails before any money moves.
	_, err = loser.CancelBooking(context.Background(), booking.ID, env.student.ID.String(), "injury")
	assert.ErrorIs(t, err, apperr.ErrStoreConflict)

	assert.Len(t, env.store.payments, 2, "exactly one refund")
	assert.True(t, env.balance().Equal(decimal.NewFromInt(100)),
		"balance is %s, want 100", env.balance())
	assert.Equal(t, 1, env.student.Student.CancelCount)
}

func TestConfirmBookingLostRaceRejected(t *testing.T) {
	env := newEngineEnv(t)
	env.student.Student.Balance = decimal.NewFromInt(1000)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	// A second confirmer reads the booking while it is still pending.
	snap := *env.store.bookings[uuid.MustParse(booking.ID)]
	loser := env.staleService(&snap)

	_, err := env.svc.ConfirmBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	// The conditional pending->confirmed flip refuses the stale transition.
	_, err = loser.ConfirmBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, apperr.ErrStoreConflict)

	stored := env.store.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
}

func TestCreateBookingLocksBeforeConflictCheck(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	courtID := env.court.ID.String()

	_, err := env.svc.CreateBooking(context.Background(), env.student.ID.String(), &request.CreateBookingRequest{
		CoachID:   env.coach.ID.String(),
		CourtID:   &courtID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)

	coachLock := env.store.eventIndex("lock " + repository.ResourceCoach + ":" + env.coach.ID.String())
	coachCheck := env.store.eventIndex("check coach:" + env.coach.ID.String())
	courtLock := env.store.eventIndex("lock " + repository.ResourceCourt + ":" + courtID)
	courtCheck := env.store.eventIndex("check court:" + courtID)

	require.NotEqual(t, -1, coachLock, "coach lock never acquired")
	require.NotEqual(t, -1, courtLock, "court lock never acquired")
	require.NotEqual(t, -1, coachCheck)
	require.NotEqual(t, -1, courtCheck)
	assert.Less(t, coachLock, coachCheck, "coach lock must precede the coach overlap check")
	assert.Less(t, courtLock, courtCheck, "court lock must precede the court overlap check")
}

func TestModifyBookingLocksBeforeConflictCheck(t *testing.T) {
	env := newEngineEnv(t)
	start, end := sessionWindow(72)
	booking := env.create(t, start, end)

	env.store.events = nil
	newStart := start.Add(15 * time.Minute)
	_, err := env.svc.ModifyBooking(context.Background(), booking.ID, &request.ModifyBookingRequest{
		StartTime: &newStart,
	})
	require.NoError(t, err)

	coachLock := env.store.eventIndex("lock " + repository.ResourceCoach + ":" + env.coach.ID.String())
	coachCheck := env.store.eventIndex("check coach:" + env.coach.ID.String())

	require.NotEqual(t, -1, coachLock, "coach lock never acquired")
	require.NotEqual(t, -1, coachCheck)
	assert.Less(t, coachLock, coachCheck, "coach lock must precede the coach overlap check")
}

func TestGetBookingNotFound(t *testing.T) {
	env := newEngineEnv(t)

	_, err := env.svc.GetBooking(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetCoachMonthlyIncome(t *testing.T) {
	env := newEngineEnv(t)
	env.student.Student.Balance = decimal.NewFromInt(1000)

	// Two sessions this window, one completed.
	start, end := sessionWindow(72)
	first := env.create(t, start, end)
	_, err := env.svc.ConfirmBooking(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = env.svc.CompleteBooking(context.Background(), first.ID)
	require.NoError(t, err)

	second := env.create(t, end, end.Add(time.Hour))
	_, err = env.svc.ConfirmBooking(context.Background(), second.ID)
	require.NoError(t, err)

	income, err := env.svc.GetCoachMonthlyIncome(context.Background(), env.coach.ID.String())
	require.NoError(t, err)

	// Only the completed session counts, when it falls in this month.
	now := time.Now()
	if start.Month() == now.Month() && start.Year() == now.Year() {
		assert.Equal(t, "80.00", income)
	} else {
		assert.Equal(t, "0.00", income)
	}
}
