package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(newService(&fakeGateway{}, newMemorySessions()), signedOutBase()))
}

func TestRegisterRoutesAuthPathAndMethodContracts(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(&fakeGateway{}, newMemorySessions()), signedOutBase()))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantAllow  string
	}{
		{name: "root", method: http.MethodGet, path: routepath.Root, wantStatus: http.StatusSeeOther},
		{name: "login page", method: http.MethodGet, path: routepath.Login, wantStatus: http.StatusOK},
		{name: "login empty post", method: http.MethodPost, path: routepath.Login, wantStatus: http.StatusUnprocessableEntity},
		{name: "logout post", method: http.MethodPost, path: routepath.Logout, wantStatus: http.StatusSeeOther},
		{name: "logout get rejected", method: http.MethodGet, path: routepath.Logout, wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodPost},
		{name: "unknown path", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantAllow != "" {
				if got := rr.Header().Get("Allow"); got != tc.wantAllow {
					t.Fatalf("Allow = %q, want %q", got, tc.wantAllow)
				}
			}
		})
	}
}
