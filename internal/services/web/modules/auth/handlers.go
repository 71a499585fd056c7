package auth

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/teamdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/publichandler"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

type handlers struct {
	publichandler.Base
	service service
}

func newHandlers(s service, base publichandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.AppTeams)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get(routepath.LoginNextQueryKey))
	if h.IsViewerSignedIn(r) {
		httpx.WriteRedirect(w, r, next)
		return
	}
	h.writeLoginPage(w, r, http.StatusOK, webtemplates.LoginPageView{Next: next})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	next := safeNext(r.FormValue(routepath.LoginNextQueryKey))
	session, err := h.service.signIn(httpx.RequestContext(r), email, r.FormValue("password"))
	if err != nil {
		loc, _ := h.PageLocalizer(w, r)
		status := apperrors.HTTPStatus(err)
		switch {
		case status == http.StatusBadRequest:
			status = http.StatusUnprocessableEntity
		case status >= http.StatusInternalServerError && apperrors.KindOf(err) == apperrors.KindUnknown:
			log.Printf("auth: sign-in failed email=%s err=%v", email, err)
		}
		h.writeLoginPage(w, r, status, webtemplates.LoginPageView{
			Email: email,
			Next:  next,
			Error: webi18n.LocalizeError(loc, err),
		})
		return
	}
	sessioncookie.Write(w, r, session.ID, h.RequestSchemePolicy())
	httpx.WriteRedirect(w, r, next)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		if err := h.service.signOut(httpx.RequestContext(r), sessionID); err != nil {
			log.Printf("auth: sign-out failed err=%v", err)
		}
	}
	sessioncookie.Clear(w, r, h.RequestSchemePolicy())
	flashnotice.Write(w, r, flashnotice.NoticeSuccess(logoutSuccessKey), h.RequestSchemePolicy())
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) writeLoginPage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginPageView) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePublicPage(w, r, webtemplates.T(loc, "auth.login.title"), status, webtemplates.LoginPage(view, loc))
}

// safeNext keeps post-login redirects on this site. next must be a plain
// absolute path; whitespace, control bytes and backslashes are refused since
// browsers drop or rewrite them before resolving the location.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || strings.IndexFunc(next, unsafeRedirectRune) >= 0 {
		return routepath.AppTeams
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return routepath.AppTeams
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil || parsed.Opaque != "" {
		return routepath.AppTeams
	}
	if strings.HasPrefix(parsed.Path, "//") || parsed.Path == routepath.Login {
		return routepath.AppTeams
	}
	return next
}

func unsafeRedirectRune(r rune) bool {
	return r == '\\' || unicode.IsSpace(r) || unicode.IsControl(r)
}
