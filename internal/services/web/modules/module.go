// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/modules/auth"
	"github.com/louisbranch/teamdesk/internal/services/web/modules/teams"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// ModuleResolvers carries request-scoped resolver functions derived from the
// principal resolver. The server builds these after the principal resolver
// and passes them to the registry functions.
type ModuleResolvers struct {
	ResolveViewer   module.ResolveViewer
	ResolveUserID   module.ResolveUserID
	ResolveToken    module.ResolveToken
	ResolveLanguage module.ResolveLanguage
}

// Dependencies carries the tenant API clients and stores required to compose
// the module registry. Client fields use the narrow interface each module
// declares, so a module only sees the calls it makes.
type Dependencies struct {
	// Auth module client and session store.
	LoginClient auth.LoginClient
	Sessions    storage.SessionStore

	// Teams module client and create-form submission guard.
	TeamsClient teams.TenantClient
	FormTokens  *formtoken.Issuer
	Submissions storage.SubmissionLedger

	SchemePolicy requestmeta.SchemePolicy
}

func (r ModuleResolvers) dependencies() module.Dependencies {
	return module.Dependencies{
		ResolveViewer:   r.ResolveViewer,
		ResolveUserID:   r.ResolveUserID,
		ResolveToken:    r.ResolveToken,
		ResolveLanguage: r.ResolveLanguage,
	}
}
