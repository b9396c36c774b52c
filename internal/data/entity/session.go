package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side auth session. Expired rows are swept
// periodically by the session repository.
type Session struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Token     uuid.UUID `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
