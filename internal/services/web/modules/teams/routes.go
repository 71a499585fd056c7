package teams

import (
	"net/http"

	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeams, h.handlePage)
	mux.HandleFunc(http.MethodGet+" "+routepath.TeamsPrefix+"{$}", h.handlePage)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsAll, h.handleAllTeams)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsMembers, h.handleMembers)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsTenancies, h.handleTenancies)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsCreate, h.handleCreateForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamsCreate, h.handleCreate)

	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamApplyPattern, h.handleApply)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamApplyPattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamsMemberInvite, h.handleInvite)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsMemberInvite, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamMemberPattern, h.handleMemberAction)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamMemberPattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamTenancyPattern, h.handleTenancyAction)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamTenancyPattern, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodGet+" "+routepath.AppTeamsRestPattern, h.WriteNotFound)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTeamsRestPattern, h.WriteNotFound)
}
