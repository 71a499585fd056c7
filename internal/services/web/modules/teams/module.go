package teams

import (
	"net/http"

	"github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

// Module provides the authenticated team management routes.
type Module struct {
	gateway TeamsGateway
	base    modulehandler.Base
	guard   *submissionGuard
}

// Option configures a teams Module.
type Option func(*Module)

// WithGateway sets the tenant API gateway.
func WithGateway(gateway TeamsGateway) Option {
	return func(m *Module) {
		m.gateway = gateway
	}
}

// WithBase sets the shared handler dependencies.
func WithBase(base modulehandler.Base) Option {
	return func(m *Module) {
		m.base = base
	}
}

// WithSubmissionGuard enables single-use create-team form tokens. Without
// it every create submission is accepted.
func WithSubmissionGuard(issuer *formtoken.Issuer, ledger storage.SubmissionLedger) Option {
	return func(m *Module) {
		m.guard = newSubmissionGuard(issuer, ledger)
	}
}

// New returns a teams module. Without a gateway it runs in degraded mode and
// every list renders the unavailable notice.
func New(opts ...Option) Module {
	m := Module{}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "teams" }

// Healthy reports whether the teams module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires teams route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway)
	h := newHandlers(svc, m.base, m.guard)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.TeamsPrefix, Handler: mux}, nil
}
