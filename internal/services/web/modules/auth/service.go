package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/teamdesk/internal/platform/timeouts"
	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

const (
	loginRequiredKey = "auth.login.required"
	loginFailedKey   = "auth.login.failed"
	logoutSuccessKey = "auth.logout.success"
)

type service struct {
	gateway  AuthGateway
	sessions storage.SessionStore
	now      func() time.Time
}

func newService(gateway AuthGateway, sessions storage.SessionStore) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway, sessions: sessions, now: time.Now}
}

// signIn checks the credentials and stores a session bound to the returned
// API token.
func (s service) signIn(ctx context.Context, email string, password string) (storage.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return storage.Session{}, apperrors.EK(apperrors.KindInvalidInput, loginRequiredKey, "email and password are required")
	}
	if s.sessions == nil {
		return storage.Session{}, apperrors.EK(apperrors.KindUnavailable, "core.error.unavailable", "session store is not configured")
	}
	signIn, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnavailable {
			return storage.Session{}, err
		}
		return storage.Session{}, apperrors.FromAPI(err, loginFailedKey)
	}
	now := s.now().UTC()
	session, err := s.sessions.CreateSession(ctx, storage.Session{
		Token:     signIn.Token,
		UserID:    signIn.UserID,
		Nickname:  signIn.Nickname,
		Email:     signIn.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(timeouts.SessionTTL),
	})
	if err != nil {
		return storage.Session{}, fmt.Errorf("create web session: %w", err)
	}
	return session, nil
}

// signOut deletes the session. A missing session is not an error.
func (s service) signOut(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || s.sessions == nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete web session: %w", err)
	}
	return nil
}
