// Package auth provides the sign-in and sign-out routes.
package auth

import (
	"net/http"

	"github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/publichandler"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

// Module owns the public authentication routes.
type Module struct {
	gateway  AuthGateway
	sessions storage.SessionStore
	base     publichandler.Base
}

// New returns an auth module. A nil gateway or store leaves sign-in
// unavailable.
func New(gateway AuthGateway, sessions storage.SessionStore, base publichandler.Base) Module {
	return Module{gateway: gateway, sessions: sessions, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Healthy reports whether sign-in can reach the tenant API and a store.
func (m Module) Healthy() bool {
	if m.gateway == nil || m.sessions == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires auth route handlers at the site root.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.gateway, m.sessions), m.base))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
