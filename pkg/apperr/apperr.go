// Package apperr defines the error kinds the booking engine returns.
// Callers branch with errors.Is; wrapping with fmt.Errorf("...: %w", err)
// keeps the kind visible through any number of layers.
package apperr

import "errors"

var (
	// ErrInvalidInterval - end not after start.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrTimeConflict - an overlapping live booking exists for the coach or court.
	ErrTimeConflict = errors.New("time conflict with an existing booking")

	// ErrInsufficientBalance - ledger debit guard failed.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidStateTransition - transition illegal from the current status.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrCancellationWindowExpired - confirmed booking cancelled inside 24h of start.
	ErrCancellationWindowExpired = errors.New("cancellation window expired")

	// ErrNotFound - referenced booking/coach/student/court does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreConflict - atomic write lost a race; the whole operation may be retried.
	ErrStoreConflict = errors.New("store conflict")

	// ErrAlreadyExists - unique field (username, email, order id) taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden - caller is not allowed to act on this resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput - request failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// IsRetryable reports whether the caller may safely retry the operation.
// Only store conflicts are transient; every mutating operation is atomic,
// so a failed call leaves no partial state behind.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreConflict)
}
