package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitemigrate "github.com/louisbranch/teamdesk/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/teamdesk/internal/services/web/storage"
	"github.com/louisbranch/teamdesk/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var errNotConfigured = errors.New("storage is not configured")

// Store provides SQLite-backed persistence for web sessions and consumed
// form submissions.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a web SQLite store.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateSession inserts a session row.
func (s *Store) CreateSession(ctx context.Context, session webstorage.Session) (webstorage.Session, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Session{}, errNotConfigured
	}
	session.Token = strings.TrimSpace(session.Token)
	if session.Token == "" {
		return webstorage.Session{}, fmt.Errorf("session token is required")
	}
	session.UserID = strings.TrimSpace(session.UserID)
	if session.UserID == "" {
		return webstorage.Session{}, fmt.Errorf("session user id is required")
	}
	if session.ExpiresAt.IsZero() {
		return webstorage.Session{}, fmt.Errorf("session expiry is required")
	}
	if strings.TrimSpace(session.ID) == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}
	session.CreatedAt = session.CreatedAt.UTC().Truncate(time.Millisecond)
	session.ExpiresAt = session.ExpiresAt.UTC().Truncate(time.Millisecond)

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (id, token, user_id, nickname, email, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Token,
		session.UserID,
		strings.TrimSpace(session.Nickname),
		strings.TrimSpace(session.Email),
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return webstorage.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// GetSession loads an unexpired session by id.
func (s *Store) GetSession(ctx context.Context, id string) (webstorage.Session, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Session{}, false, errNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.Session{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, token, user_id, nickname, email, created_at, expires_at
		 FROM web_sessions
		 WHERE id = ?`,
		id,
	)
	var session webstorage.Session
	var createdAt int64
	var expiresAt int64
	if err := row.Scan(
		&session.ID,
		&session.Token,
		&session.UserID,
		&session.Nickname,
		&session.Email,
		&createdAt,
		&expiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.Session{}, false, nil
		}
		return webstorage.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	if session.Expired(s.now()) {
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errNotConfigured
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= ?`, timeToUnixMillis(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// ConsumeSubmission records a form token id. The primary key makes the
// first insert win; later inserts of the same id report false.
func (s *Store) ConsumeSubmission(ctx context.Context, id string, expiresAt time.Time) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, errNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("submission id is required")
	}
	now := s.now().UTC()
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM form_submissions WHERE expires_at <= ?`, timeToUnixMillis(now)); err != nil {
		return false, fmt.Errorf("prune submissions: %w", err)
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO form_submissions (id, consumed_at, expires_at) VALUES (?, ?, ?)`,
		id,
		timeToUnixMillis(now),
		timeToUnixMillis(expiresAt),
	)
	if err != nil {
		return false, fmt.Errorf("consume submission: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume submission: %w", err)
	}
	return affected == 1, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
