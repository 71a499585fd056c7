package teams

import (
	"strconv"
	"strings"
	"time"

	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

const displayTimeLayout = "2006-01-02 15:04"

// formatTimestamp renders an upstream date. Unix seconds or milliseconds and
// RFC 3339 values are normalised to UTC; anything else is shown as sent.
func formatTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if number, err := strconv.ParseFloat(raw, 64); err == nil && number > 0 {
		seconds := int64(number)
		if seconds > 1e11 {
			return time.UnixMilli(seconds).UTC().Format(displayTimeLayout)
		}
		return time.Unix(seconds, 0).UTC().Format(displayTimeLayout)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC().Format(displayTimeLayout)
		}
	}
	return raw
}

// roleLabelKey maps a wire role onto its display catalog key.
func roleLabelKey(role string) string {
	switch {
	case role == roleOwner:
		return "teams.role.owner"
	case role == rolePending:
		return "teams.role.pending"
	case isInvitation(role):
		return "teams.role.invited"
	default:
		return "teams.role.member"
	}
}

func mapTeamRows(teams []Team) []webtemplates.TeamRowView {
	rows := make([]webtemplates.TeamRowView, 0, len(teams))
	for _, team := range teams {
		apply := webtemplates.RowAction{
			Name:     actionApply,
			LabelKey: "teams.action.apply",
			URL:      routepath.AppTeamApply(team.TenantID),
		}
		if team.HasApplied {
			apply.LabelKey = "teams.action.applied"
			apply.Disabled = true
		}
		rows = append(rows, webtemplates.TeamRowView{
			TenantID:   team.TenantID,
			Name:       team.Name,
			OwnerName:  team.OwnerName,
			OwnerEmail: team.OwnerEmail,
			Created:    formatTimestamp(team.CreatedAt),
			Updated:    formatTimestamp(team.UpdatedAt),
			Apply:      apply,
		})
	}
	return rows
}

// memberActions returns the controls of one member row: none for the owner,
// accept and reject for a pending applicant, remove otherwise.
func memberActions(tenantID string, member Member) []webtemplates.RowAction {
	fields := []webtemplates.FormField{{Name: routepath.TeamsMembersTenantQuery, Value: tenantID}}
	action := func(name string) webtemplates.RowAction {
		return webtemplates.RowAction{
			Name:     name,
			LabelKey: "teams.action." + name,
			URL:      routepath.AppTeamMemberAction(member.UserID, name),
			Fields:   fields,
		}
	}
	switch member.Role {
	case roleOwner:
		return nil
	case rolePending:
		return []webtemplates.RowAction{action(actionAccept), action(actionReject)}
	default:
		return []webtemplates.RowAction{action(actionRemove)}
	}
}

func mapMemberRows(tenantID string, members []Member) []webtemplates.MemberRowView {
	rows := make([]webtemplates.MemberRowView, 0, len(members))
	for _, member := range members {
		rows = append(rows, webtemplates.MemberRowView{
			UserID:   member.UserID,
			Nickname: member.Nickname,
			Email:    member.Email,
			RoleKey:  roleLabelKey(member.Role),
			Joined:   formatTimestamp(member.JoinedAt),
			Updated:  formatTimestamp(member.UpdatedAt),
			Actions:  memberActions(tenantID, member),
		})
	}
	return rows
}

// tenancyActions returns the controls of one tenancy row: agree and refuse
// for an invitation, quit for a plain membership, none otherwise. The quit
// control is withheld when the viewer id equals the team id.
func tenancyActions(viewerID string, tenancy Tenancy) []webtemplates.RowAction {
	action := func(name string) webtemplates.RowAction {
		return webtemplates.RowAction{
			Name:     name,
			LabelKey: "teams.action." + name,
			URL:      routepath.AppTeamTenancyAction(tenancy.TenantID, name),
		}
	}
	switch {
	case isInvitation(tenancy.Role):
		return []webtemplates.RowAction{action(actionAgree), action(actionRefuse)}
	case tenancy.Role == roleNormal && viewerID != tenancy.TenantID:
		return []webtemplates.RowAction{action(actionQuit)}
	default:
		return nil
	}
}

func mapTenancyRows(viewerID string, tenancies []Tenancy) []webtemplates.TenancyRowView {
	rows := make([]webtemplates.TenancyRowView, 0, len(tenancies))
	for _, tenancy := range tenancies {
		rows = append(rows, webtemplates.TenancyRowView{
			TenantID:   tenancy.TenantID,
			Name:       tenancy.Name,
			RoleKey:    roleLabelKey(tenancy.Role),
			OwnerName:  tenancy.OwnerName,
			OwnerEmail: tenancy.OwnerEmail,
			Actions:    tenancyActions(viewerID, tenancy),
		})
	}
	return rows
}

func localizeError(loc webtemplates.Localizer, err error) string {
	return webi18n.LocalizeError(loc, err)
}

// errorNotice renders a list failure as an inline notice.
func errorNotice(loc webtemplates.Localizer, err error) *webtemplates.NoticeView {
	if err == nil {
		return nil
	}
	return &webtemplates.NoticeView{Kind: "error", Message: localizeError(loc, err)}
}

func allTeamsView(loc webtemplates.Localizer, view string, state listState[Team]) webtemplates.AllTeamsSectionView {
	return webtemplates.AllTeamsSectionView{
		View:    view,
		Loading: state.Loading,
		Rows:    mapTeamRows(state.Items),
		Notice:  errorNotice(loc, state.Err),
	}
}

func membersView(loc webtemplates.Localizer, view string, tenantID string, state listState[Member]) webtemplates.MembersSectionView {
	return webtemplates.MembersSectionView{
		View:     view,
		TenantID: tenantID,
		Loading:  state.Loading,
		Rows:     mapMemberRows(tenantID, state.Items),
		Notice:   errorNotice(loc, state.Err),
	}
}

func tenanciesView(loc webtemplates.Localizer, view string, viewerID string, state listState[Tenancy]) webtemplates.TenanciesSectionView {
	return webtemplates.TenanciesSectionView{
		View:    view,
		Loading: state.Loading,
		Rows:    mapTenancyRows(viewerID, state.Items),
		Notice:  errorNotice(loc, state.Err),
	}
}
