package storage

import (
	"context"
	"time"
)

// Session binds a browser session id to the upstream API token and the
// viewer identity returned at sign-in.
type Session struct {
	ID        string
	Token     string
	UserID    string
	Nickname  string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	// CreateSession stores session, assigning an id when it has none.
	CreateSession(ctx context.Context, session Session) (Session, error)
	// GetSession returns an unexpired session by id.
	GetSession(ctx context.Context, id string) (Session, bool, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SubmissionLedger records consumed single-use form tokens.
type SubmissionLedger interface {
	// ConsumeSubmission records id and reports false when it was already
	// consumed.
	ConsumeSubmission(ctx context.Context, id string, expiresAt time.Time) (bool, error)
}

// Store is the full web persistence contract.
type Store interface {
	SessionStore
	SubmissionLedger
	Close() error
}
