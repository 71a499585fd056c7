package flash

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
)

func roundTrip(t *testing.T, notice Notice) (Notice, bool) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/app/teams/t1/apply", nil)
	Write(rr, req, notice, requestmeta.SchemePolicy{})

	next := httptest.NewRequest(http.MethodGet, "/app/teams", nil)
	for _, cookie := range rr.Result().Cookies() {
		next.AddCookie(cookie)
	}
	return ReadAndClear(httptest.NewRecorder(), next, requestmeta.SchemePolicy{})
}

func TestWriteReadAndClearKeyNotice(t *testing.T) {
	t.Parallel()

	got, ok := roundTrip(t, NoticeSuccess("teams.notice.apply_success"))
	if !ok {
		t.Fatal("expected notice")
	}
	if got.Kind != KindSuccess || got.Key != "teams.notice.apply_success" {
		t.Fatalf("notice = %+v", got)
	}
}

func TestWriteReadServerMessageNotice(t *testing.T) {
	t.Parallel()

	got, ok := roundTrip(t, NoticeErrorMessage(" forbidden "))
	if !ok {
		t.Fatal("expected notice")
	}
	if got.Kind != KindError || got.Message != "forbidden" || got.Key != "" {
		t.Fatalf("notice = %+v", got)
	}
}

func TestLongMessagesAreTruncated(t *testing.T) {
	t.Parallel()

	got, ok := roundTrip(t, NoticeErrorMessage(strings.Repeat("x", maxMessageLength+50)))
	if !ok || len(got.Message) != maxMessageLength {
		t.Fatalf("message length = %d, ok = %v", len(got.Message), ok)
	}
}

func TestWriteSkipsInvalidNotices(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{
		{Kind: KindSuccess},
		{Kind: "loud", Key: "teams.notice.apply_success"},
	} {
		rr := httptest.NewRecorder()
		Write(rr, httptest.NewRequest(http.MethodGet, "/", nil), notice, requestmeta.SchemePolicy{})
		if len(rr.Result().Cookies()) != 0 {
			t.Fatalf("expected no cookie for %+v", notice)
		}
	}
}

func TestReadAndClearRejectsTamperedCookies(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"%%%", base64.RawURLEncoding.EncodeToString([]byte("not json")), ""} {
		req := httptest.NewRequest(http.MethodGet, "/app/teams", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		rr := httptest.NewRecorder()
		if _, ok := ReadAndClear(rr, req, requestmeta.SchemePolicy{}); ok {
			t.Fatalf("expected rejection for %q", value)
		}
	}
}

func TestReadAndClearExpiresCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/app/teams", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"info","key":"core.loading"}`))})
	rr := httptest.NewRecorder()
	if _, ok := ReadAndClear(rr, req, requestmeta.SchemePolicy{}); !ok {
		t.Fatal("expected notice")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
	if _, ok := ReadAndClear(rr, nil, requestmeta.SchemePolicy{}); ok {
		t.Fatal("expected nil request to yield no notice")
	}
}
