package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPSWithPolicy(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "http://teams.example.com/app/teams", nil)
	plain.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(plain) {
		t.Fatal("expected untrusted forwarded proto to be ignored")
	}
	if !IsHTTPSWithPolicy(plain, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("expected trusted forwarded proto to be honoured")
	}

	secure := httptest.NewRequest(http.MethodGet, "/app/teams", nil)
	secure.TLS = &tls.ConnectionState{}
	if !IsHTTPS(secure) {
		t.Fatal("expected TLS request to be https")
	}
	if IsHTTPS(nil) {
		t.Fatal("expected nil request to be non-https")
	}
}

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", origin: "http://teams.example.com", want: true},
		{name: "matching origin explicit port", origin: "http://teams.example.com:80", want: true},
		{name: "matching referer", referer: "http://teams.example.com/app/teams", want: true},
		{name: "cross origin", origin: "http://evil.example.com", want: false},
		{name: "scheme mismatch", origin: "https://teams.example.com", want: false},
		{name: "origin wins over referer", origin: "http://evil.example.com", referer: "http://teams.example.com/", want: false},
		{name: "no proof", want: false},
		{name: "malformed origin", origin: "::::", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "http://teams.example.com/app/teams/create", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			if got := HasSameOriginProof(req); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasSameOriginProofHonoursForwardedProto(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://teams.example.com/app/teams/create", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("Origin", "https://teams.example.com")
	if HasSameOriginProof(req) {
		t.Fatal("expected mismatch without trusted proto")
	}
	// Behind a TLS proxy the Host header carries the public port.
	req.Host = "teams.example.com:443"
	if !HasSameOriginProofWithPolicy(req, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("expected match with trusted proto")
	}
}
