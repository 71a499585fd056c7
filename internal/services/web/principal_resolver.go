package web

import (
	"context"
	"log"
	"net/http"
	"sync"

	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

// requestPrincipalState caches per-request lookups so one request reads the
// session store at most once.
type requestPrincipalState struct {
	sessionOnce  sync.Once
	session      storage.Session
	found        bool
	languageOnce sync.Once
	language     string
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	sessions storage.SessionStore
}

func newPrincipalResolver(sessions storage.SessionStore) principalResolver {
	return principalResolver{sessions: sessions}
}

func (r principalResolver) lookupSession(ctx context.Context, sessionID string) (storage.Session, bool) {
	if r.sessions == nil || sessionID == "" {
		return storage.Session{}, false
	}
	session, ok, err := r.sessions.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("web: session lookup failed err=%v", err)
		return storage.Session{}, false
	}
	if !ok || session.UserID == "" {
		return storage.Session{}, false
	}
	return session, true
}

func (r principalResolver) resolveSessionUncached(req *http.Request) (storage.Session, bool) {
	if req == nil {
		return storage.Session{}, false
	}
	sessionID, ok := sessioncookie.Read(req)
	if !ok {
		return storage.Session{}, false
	}
	return r.lookupSession(req.Context(), sessionID)
}

func (r principalResolver) resolveSession(req *http.Request) (storage.Session, bool) {
	if state := requestPrincipalStateFromRequest(req); state != nil {
		state.sessionOnce.Do(func() {
			state.session, state.found = r.resolveSessionUncached(req)
		})
		return state.session, state.found
	}
	return r.resolveSessionUncached(req)
}

func (r principalResolver) resolveRequestUserID(req *http.Request) string {
	session, _ := r.resolveSession(req)
	return session.UserID
}

func (r principalResolver) resolveToken(req *http.Request) string {
	session, _ := r.resolveSession(req)
	return session.Token
}

func (r principalResolver) resolveViewer(req *http.Request) module.Viewer {
	session, ok := r.resolveSession(req)
	if !ok {
		return module.Viewer{}
	}
	return module.Viewer{
		UserID:   session.UserID,
		Nickname: session.Nickname,
		Email:    session.Email,
	}
}

func (r principalResolver) resolveRequestLanguage(req *http.Request) string {
	if state := requestPrincipalStateFromRequest(req); state != nil {
		state.languageOnce.Do(func() {
			state.language = webi18n.ResolveTag(req, nil).String()
		})
		return state.language
	}
	return webi18n.ResolveTag(req, nil).String()
}

func (r principalResolver) authRequired() func(*http.Request) bool {
	return func(req *http.Request) bool {
		_, ok := r.resolveSession(req)
		return ok
	}
}
