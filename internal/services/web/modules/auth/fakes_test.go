package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/publichandler"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

type fakeGateway struct {
	signIn SignIn
	err    error
	calls  int
}

func (f *fakeGateway) Login(context.Context, string, string) (SignIn, error) {
	f.calls++
	if f.err != nil {
		return SignIn{}, f.err
	}
	return f.signIn, nil
}

// memorySessions is an in-memory session store for tests.
type memorySessions struct {
	mu       sync.Mutex
	next     int
	sessions map[string]storage.Session
	deleted  []string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]storage.Session{}}
}

func (m *memorySessions) CreateSession(_ context.Context, session storage.Session) (storage.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	session.ID = fmt.Sprintf("s%d", m.next)
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memorySessions) GetSession(_ context.Context, id string) (storage.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	return session, ok, nil
}

func (m *memorySessions) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memorySessions) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func signedOutBase() publichandler.Base {
	return publichandler.NewBase()
}

func signedInBase() publichandler.Base {
	return publichandler.NewBase(publichandler.WithResolveViewer(func(*http.Request) module.Viewer {
		return module.Viewer{UserID: "u1"}
	}))
}
