// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root    = "/"
	Login   = "/login"
	Logout  = "/logout"
	Health  = "/up"
	Metrics = "/metrics"

	StaticPrefix = "/static/"

	AppPrefix   = "/app/"
	AppTeams    = "/app/teams"
	TeamsPrefix = "/app/teams/"

	AppTeamsAll             = TeamsPrefix + "all"
	AppTeamApplyPattern     = TeamsPrefix + "{tenantID}/apply"
	AppTeamsMembers         = TeamsPrefix + "members"
	AppTeamsMemberInvite    = TeamsPrefix + "members/invite"
	AppTeamMemberPattern    = TeamsPrefix + "members/{userID}/{action}"
	AppTeamsTenancies       = TeamsPrefix + "tenancies"
	AppTeamTenancyPattern   = TeamsPrefix + "tenancies/{tenantID}/{action}"
	AppTeamsCreate          = TeamsPrefix + "create"
	AppTeamsRestPattern     = TeamsPrefix + "{rest...}"
	TeamsCreateQueryKey     = "create"
	TeamsMembersTenantQuery = "tenant_id"
	TeamsViewQueryKey       = "view"
	TeamsReloadQueryKey     = "reload"
	LoginNextQueryKey       = "next"
)

// AppTeamApply returns the apply-to-team action route.
func AppTeamApply(tenantID string) string {
	return TeamsPrefix + escapeSegment(tenantID) + "/apply"
}

// AppTeamsMembersFor returns the member list fragment route for one team.
func AppTeamsMembersFor(tenantID string) string {
	query := url.Values{}
	query.Set(TeamsMembersTenantQuery, strings.TrimSpace(tenantID))
	return AppTeamsMembers + "?" + query.Encode()
}

// AppTeamsSection scopes a section fragment route to one rendered page view.
// reload marks a refresh of a section that is already on screen.
func AppTeamsSection(path string, view string, reload bool) string {
	base, rawQuery, _ := strings.Cut(path, "?")
	query, _ := url.ParseQuery(rawQuery)
	if view = strings.TrimSpace(view); view != "" {
		query.Set(TeamsViewQueryKey, view)
	}
	if reload {
		query.Set(TeamsReloadQueryKey, "1")
	}
	if len(query) == 0 {
		return base
	}
	return base + "?" + query.Encode()
}

// AppTeamMemberAction returns a member row action route.
func AppTeamMemberAction(userID string, action string) string {
	return AppTeamsMembers + "/" + escapeSegment(userID) + "/" + escapeSegment(action)
}

// AppTeamTenancyAction returns a tenancy row action route.
func AppTeamTenancyAction(tenantID string, action string) string {
	return AppTeamsTenancies + "/" + escapeSegment(tenantID) + "/" + escapeSegment(action)
}

// AppTeamsWithCreate returns the teams page route with the create dialog open.
func AppTeamsWithCreate() string {
	return AppTeams + "?" + TeamsCreateQueryKey + "=1"
}

// LoginWithNext returns the sign-in route that returns to next afterwards.
func LoginWithNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || next == Root {
		return Login
	}
	query := url.Values{}
	query.Set(LoginNextQueryKey, next)
	return Login + "?" + query.Encode()
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
