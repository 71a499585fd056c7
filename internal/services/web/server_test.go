package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/observability"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/teamdesk/internal/services/web/storage/sqlite"
	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

type upstreamCall struct {
	path          string
	authorization string
}

type fakeUpstream struct {
	mu    sync.Mutex
	calls []upstreamCall
}

func (f *fakeUpstream) recorded() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, upstreamCall{path: r.URL.Path, authorization: r.Header.Get("Authorization")})
	f.mu.Unlock()
	switch r.URL.Path {
	case "/v1/user/login":
		w.Header().Set("Authorization", "session-token")
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":"u1","nickname":"Ann","email":"ann@example.com"}}`)
	case "/v1/user/info":
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":"u1","nickname":"Ann Lee","email":"ann@example.com"}}`)
	case "/v1/tenant/list":
		_, _ = io.WriteString(w, `{"code":0,"data":[{"tenant_id":"t1","name":"Acme","role":"normal","owner_name":"Bob"}]}`)
	default:
		_, _ = io.WriteString(w, `{"code":0,"data":null}`)
	}
}

func newTestHandler(t *testing.T) (http.Handler, *fakeUpstream) {
	t.Helper()
	upstream := &fakeUpstream{}
	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	client, err := tenantapi.NewClient(api.URL, tenantapi.WithTimeout(2*time.Second), tenantapi.WithObserver(metrics))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	issuer, err := formtoken.NewIssuer([]byte(strings.Repeat("k", 32)), time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}

	h, err := NewHandler(Config{
		TenantClient: client,
		Store:        store,
		FormTokens:   issuer,
		Metrics:      metrics,
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h, upstream
}

func signIn(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {"ann@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d body=%s", rr.Code, http.StatusSeeOther, rr.Body.String())
	}
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("login did not set %s cookie", sessioncookie.Name)
	return nil
}

func TestProtectedRoutesRedirectSignedOutViewer(t *testing.T) {
	t.Parallel()

	h, upstream := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/teams", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/login?next=%2Fapp%2Fteams" {
		t.Fatalf("Location = %q", got)
	}
	if calls := upstream.recorded(); len(calls) != 0 {
		t.Fatalf("upstream calls = %v, want none", calls)
	}
}

func TestSignedInFragmentCarriesSessionToken(t *testing.T) {
	t.Parallel()

	h, upstream := newTestHandler(t)
	cookie := signIn(t, h)

	req := httptest.NewRequest(http.MethodGet, "/app/teams/tenancies", nil)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "Acme") {
		t.Fatalf("body missing tenancy row: %s", rr.Body.String())
	}
	var sawList bool
	for _, call := range upstream.recorded() {
		if call.path == "/v1/tenant/list" {
			sawList = true
			if call.authorization != "session-token" {
				t.Fatalf("Authorization = %q, want session-token", call.authorization)
			}
		}
	}
	if !sawList {
		t.Fatalf("tenancy list not requested: %v", upstream.recorded())
	}
}

func TestSignInReadsUserInfoWithSessionToken(t *testing.T) {
	t.Parallel()

	h, upstream := newTestHandler(t)
	signIn(t, h)

	for _, call := range upstream.recorded() {
		if call.path == "/v1/user/info" {
			if call.authorization != "session-token" {
				t.Fatalf("Authorization = %q, want session-token", call.authorization)
			}
			return
		}
	}
	t.Fatalf("user info not requested: %v", upstream.recorded())
}

func TestSignedInMutationRequiresSameOrigin(t *testing.T) {
	t.Parallel()

	h, upstream := newTestHandler(t)
	cookie := signIn(t, h)

	req := httptest.NewRequest(http.MethodPost, "/app/teams/tenancies/t1/quit", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	for _, call := range upstream.recorded() {
		if strings.HasPrefix(call.path, "/v1/tenant/t1/") {
			t.Fatalf("cross-origin mutation reached upstream: %v", call)
		}
	}
}

func TestSignOutEndsSession(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	cookie := signIn(t, h)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	after := httptest.NewRequest(http.MethodGet, "/app/teams", nil)
	after.AddCookie(cookie)
	afterRR := httptest.NewRecorder()
	h.ServeHTTP(afterRR, after)
	if afterRR.Code != http.StatusSeeOther {
		t.Fatalf("status after logout = %d, want %d", afterRR.Code, http.StatusSeeOther)
	}
}

func TestHealthReportsModules(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}

	degraded, err := NewHandler(Config{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr = httptest.NewRecorder()
	degraded.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusServiceUnavailable || rr.Body.String() != "DEGRADED auth,teams" {
		t.Fatalf("degraded health = %d %q", rr.Code, rr.Body.String())
	}
}

func TestMetricsAndStaticAssets(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "teamdesk_web_http_requests_total") {
		t.Fatalf("metrics = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("static status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}); err == nil {
		t.Fatalf("expected address error")
	}
	server, err := NewServer(Config{HTTPAddr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if server.Addr() != "127.0.0.1:0" {
		t.Fatalf("Addr = %q", server.Addr())
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{HTTPAddr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("ListenAndServe did not stop")
	}
}
