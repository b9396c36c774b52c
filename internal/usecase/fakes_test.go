package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coach-booking/internal/data/entity"
	"coach-booking/internal/data/repository"
	"coach-booking/pkg/apperr"
)

// memStore backs the fake repositories so engine tests run without a
// database. All fakes share one store, mirroring how the real
// repositories share one pool.
type memStore struct {
	users        map[uuid.UUID]*entity.User
	courts       map[uuid.UUID]*entity.Court
	bookings     map[uuid.UUID]*entity.Booking
	payments     []*entity.Payment
	sessions     map[string]*entity.Session
	cancelMonths map[uuid.UUID]time.Time

	// events records lock acquisitions and overlap checks in call order,
	// so tests can assert the lock is held before the check runs.
	events []string
}

func (s *memStore) record(event string) {
	s.events = append(s.events, event)
}

func (s *memStore) eventIndex(event string) int {
	for i, e := range s.events {
		if e == event {
			return i
		}
	}
	return -1
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*entity.User),
		courts:       make(map[uuid.UUID]*entity.Court),
		bookings:     make(map[uuid.UUID]*entity.Booking),
		sessions:     make(map[string]*entity.Session),
		cancelMonths: make(map[uuid.UUID]time.Time),
	}
}

func newMemRepository(store *memStore) *repository.Repository {
	return &repository.Repository{
		User:    &memUserRepo{store},
		Court:   &memCourtRepo{store},
		Booking: &memBookingRepo{store},
		Ledger:  &memLedgerRepo{store},
		Payment: &memPaymentRepo{store},
		Session: &memSessionRepo{store},
		Lock:    &memLockRepo{store},
	}
}

// memUnitOfWork hands the callback the same fake repositories. Atomicity
// is what the real pgx transaction provides; the engine logic under test
// is ordering and guards.
type memUnitOfWork struct {
	repo *repository.Repository
}

func (u *memUnitOfWork) Do(_ context.Context, fn func(r *repository.Repository) error) error {
	return fn(u.repo)
}

// ---------- users ----------

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.store.users[id], nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.store.users[id]
	return ok, nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindCoachByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u := r.store.users[id]
	if u == nil || u.Role != entity.RoleCoach {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) GetCoachHourlyRate(_ context.Context, coachID uuid.UUID) (decimal.Decimal, error) {
	u := r.store.users[coachID]
	if u == nil || u.Coach == nil {
		return decimal.Zero, fmt.Errorf("coach %s: %w", coachID, apperr.ErrNotFound)
	}
	return u.Coach.HourlyRate, nil
}

func (r *memUserRepo) ListCoaches(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var coaches []*entity.User
	for _, u := range r.store.users {
		if u.Role == entity.RoleCoach {
			coaches = append(coaches, u)
		}
	}
	return coaches, nil
}

func (r *memUserRepo) CountCoaches(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.store.users {
		if u.Role == entity.RoleCoach {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) FindStudentByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u := r.store.users[id]
	if u == nil || u.Role != entity.RoleStudent {
		return nil, nil
	}
	return u, nil
}

// ---------- courts ----------

type memCourtRepo struct{ store *memStore }

func (r *memCourtRepo) Create(_ context.Context, court *entity.Court) error {
	r.store.courts[court.ID] = court
	return nil
}

func (r *memCourtRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	return r.store.courts[id], nil
}

func (r *memCourtRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.store.courts[id]
	return ok, nil
}

func (r *memCourtRepo) Update(_ context.Context, court *entity.Court) error {
	r.store.courts[court.ID] = court
	return nil
}

func (r *memCourtRepo) ListByCampus(_ context.Context, campusID uuid.UUID) ([]*entity.Court, error) {
	var courts []*entity.Court
	for _, c := range r.store.courts {
		if c.CampusID == campusID {
			courts = append(courts, c)
		}
	}
	return courts, nil
}

// ---------- bookings ----------

type memBookingRepo struct{ store *memStore }

func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.store.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.store.bookings[id], nil
}

func (r *memBookingRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.store.bookings[id], nil
}

func (r *memBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.store.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) error {
	b := r.store.bookings[bookingID]
	if b == nil {
		return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	if b.Status != from {
		return fmt.Errorf("booking %s is no longer %s: %w", bookingID, from, apperr.ErrStoreConflict)
	}
	b.Status = to
	return nil
}

func (r *memBookingRepo) Cancel(_ context.Context, bookingID uuid.UUID, reason string, by uuid.UUID, at time.Time, from entity.BookingStatus) error {
	b := r.store.bookings[bookingID]
	if b == nil {
		return fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	if b.Status != from {
		return fmt.Errorf("booking %s is no longer %s: %w", bookingID, from, apperr.ErrStoreConflict)
	}
	b.Status = entity.BookingStatusCancelled
	b.CancelReason = reason
	b.CancelBy = &by
	b.CancelTime = &at
	return nil
}

func (r *memBookingRepo) ExistsCoachOverlap(_ context.Context, coachID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.store.record("check coach:" + coachID.String())
	for _, b := range r.store.bookings {
		if b.CoachID != coachID || !b.IsLive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) ExistsCourtOverlap(_ context.Context, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.store.record("check court:" + courtID.String())
	for _, b := range r.store.bookings {
		if b.CourtID == nil || *b.CourtID != courtID || !b.IsLive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) FindByStudentID(_ context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) CountByStudentID(_ context.Context, studentID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.store.bookings {
		if b.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) FindByCoachID(_ context.Context, coachID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.CoachID == coachID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindByCoachIDAndRange(_ context.Context, coachID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.CoachID == coachID && b.IsLive() && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListCompletedByParticipant(_ context.Context, participantID uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.Status != entity.BookingStatusCompleted {
			continue
		}
		if b.CoachID == participantID || b.StudentID == participantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListUpcoming(_ context.Context, from, to time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if !b.StartTime.Before(from) && b.StartTime.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) SumCompletedFeesByCoach(_ context.Context, coachID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.store.bookings {
		if b.CoachID != coachID || b.Status != entity.BookingStatusCompleted {
			continue
		}
		if !b.StartTime.Before(start) && b.StartTime.Before(end) {
			total = total.Add(b.Fee)
		}
	}
	return total, nil
}

// ---------- ledger ----------

type memLedgerRepo struct{ store *memStore }

func (r *memLedgerRepo) Debit(_ context.Context, studentID uuid.UUID, amount decimal.Decimal) error {
	u := r.store.users[studentID]
	if u == nil || u.Student == nil {
		return fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}
	if u.Student.Balance.LessThan(amount) {
		return fmt.Errorf("balance %s below %s: %w", u.Student.Balance, amount, apperr.ErrInsufficientBalance)
	}
	u.Student.Balance = u.Student.Balance.Sub(amount)
	return nil
}

func (r *memLedgerRepo) Credit(_ context.Context, studentID uuid.UUID, amount decimal.Decimal) error {
	u := r.store.users[studentID]
	if u == nil || u.Student == nil {
		return fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}
	u.Student.Balance = u.Student.Balance.Add(amount)
	return nil
}

func (r *memLedgerRepo) GetBalance(_ context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	u := r.store.users[studentID]
	if u == nil || u.Student == nil {
		return decimal.Zero, fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}
	return u.Student.Balance, nil
}

func sameMonth(a, b time.Time) bool {
	return a.UTC().Year() == b.UTC().Year() && a.UTC().Month() == b.UTC().Month()
}

func (r *memLedgerRepo) GetMonthlyCancelCount(_ context.Context, studentID uuid.UUID) (int, error) {
	u := r.store.users[studentID]
	if u == nil || u.Student == nil {
		return 0, fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}
	month, ok := r.store.cancelMonths[studentID]
	if !ok || !sameMonth(month, time.Now()) {
		return 0, nil
	}
	return u.Student.CancelCount, nil
}

func (r *memLedgerRepo) IncrementMonthlyCancelCount(_ context.Context, studentID uuid.UUID) error {
	u := r.store.users[studentID]
	if u == nil || u.Student == nil {
		return fmt.Errorf("student %s: %w", studentID, apperr.ErrNotFound)
	}
	month, ok := r.store.cancelMonths[studentID]
	if !ok || !sameMonth(month, time.Now()) {
		u.Student.CancelCount = 0
	}
	u.Student.CancelCount++
	r.store.cancelMonths[studentID] = time.Now()
	return nil
}

// ---------- payments ----------

type memPaymentRepo struct{ store *memStore }

func (r *memPaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.store.payments = append(r.store.payments, payment)
	return nil
}

func (r *memPaymentRepo) FindByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	for _, p := range r.store.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) FindByRelatedBooking(_ context.Context, bookingID uuid.UUID, ptype entity.PaymentType) (*entity.Payment, error) {
	var latest *entity.Payment
	for _, p := range r.store.payments {
		if p.RelatedID == nil || *p.RelatedID != bookingID || p.Type != ptype {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest, nil
}

func (r *memPaymentRepo) UpdateStatusByOrderID(_ context.Context, orderID string, from, to entity.PaymentStatus) error {
	for _, p := range r.store.payments {
		if p.OrderID == orderID {
			if p.Status != from {
				return fmt.Errorf("order %s is no longer %s: %w", orderID, from, apperr.ErrInvalidStateTransition)
			}
			p.Status = to
			return nil
		}
	}
	return fmt.Errorf("payment %s: %w", orderID, apperr.ErrNotFound)
}

func (r *memPaymentRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.store.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.store.payments {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memPaymentRepo) SumAmountByType(_ context.Context, ptype entity.PaymentType) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.store.payments {
		if p.Type == ptype && p.Status == entity.PaymentStatusSuccess {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

// ---------- sessions ----------

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.store.sessions[session.Token.String()] = session
	return nil
}

func (r *memSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s, ok := r.store.sessions[token]
	if !ok || s.Expired(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.store.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for token, s := range r.store.sessions {
		if s.Expired(time.Now()) {
			delete(r.store.sessions, token)
			n++
		}
	}
	return n, nil
}

// ---------- locks ----------

type memLockRepo struct{ store *memStore }

func (r *memLockRepo) AcquireResource(_ context.Context, kind string, id uuid.UUID) error {
	r.store.record("lock " + kind + ":" + id.String())
	return nil
}
