package modules

import (
	"github.com/louisbranch/teamdesk/internal/services/web/modules/auth"
	"github.com/louisbranch/teamdesk/internal/services/web/modules/teams"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/publichandler"
)

// DefaultPublicModules returns the signed-out web modules.
func DefaultPublicModules(deps Dependencies, res ModuleResolvers) []Module {
	base := publichandler.NewBase(
		publichandler.WithResolveViewer(res.ResolveViewer),
		publichandler.WithResolveLanguage(res.ResolveLanguage),
		publichandler.WithSchemePolicy(deps.SchemePolicy),
	)
	return []Module{
		auth.New(auth.NewAPIGateway(deps.LoginClient), deps.Sessions, base),
	}
}

// DefaultProtectedModules returns the authenticated web modules.
func DefaultProtectedModules(deps Dependencies, res ModuleResolvers) []Module {
	base := modulehandler.NewBase(res.dependencies(), deps.SchemePolicy)
	return []Module{
		teams.New(
			teams.WithGateway(teams.NewAPIGateway(deps.TeamsClient)),
			teams.WithBase(base),
			teams.WithSubmissionGuard(deps.FormTokens, deps.Submissions),
		),
	}
}
