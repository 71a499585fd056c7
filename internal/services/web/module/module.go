// Package module defines the feature contract used by web composition.
package module

import "net/http"

// Viewer contains the signed-in user's identity for app pages.
type Viewer struct {
	UserID   string
	Nickname string
	Email    string
}

// DisplayName returns the best label for app chrome.
func (v Viewer) DisplayName() string {
	if v.Nickname != "" {
		return v.Nickname
	}
	return v.Email
}

// SignedIn reports whether the viewer carries an identity.
func (v Viewer) SignedIn() bool {
	return v.UserID != ""
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveUserID resolves the authenticated user id for a request.
type ResolveUserID func(*http.Request) string

// ResolveToken resolves the upstream API token bound to the request session.
type ResolveToken func(*http.Request) string

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// Dependencies carries the request resolvers shared by modules and
// platform renderers.
type Dependencies struct {
	ResolveViewer   ResolveViewer
	ResolveUserID   ResolveUserID
	ResolveToken    ResolveToken
	ResolveLanguage ResolveLanguage
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability.
type HealthReporter interface {
	Healthy() bool
}
