package teams

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
)

// Row action names.
const (
	actionApply  = "apply"
	actionRemove = "remove"
	actionAccept = "accept"
	actionReject = "reject"
	actionAgree  = "agree"
	actionRefuse = "refuse"
	actionQuit   = "quit"
)

// Catalog keys of action outcomes.
var actionNoticeKeys = map[string]struct{ success, failure string }{
	actionApply:  {"teams.notice.apply_success", "teams.notice.apply_failed"},
	actionRemove: {"teams.notice.remove_member_success", "teams.notice.remove_member_failed"},
	actionAccept: {"teams.notice.accept_member_success", "teams.notice.accept_member_failed"},
	actionReject: {"teams.notice.reject_member_success", "teams.notice.reject_member_failed"},
	actionAgree:  {"teams.notice.agree_success", "teams.notice.agree_failed"},
	actionRefuse: {"teams.notice.refuse_success", "teams.notice.refuse_failed"},
	actionQuit:   {"teams.notice.quit_success", "teams.notice.quit_failed"},
}

const (
	fetchTeamsFailedKey     = "teams.notice.fetch_teams_failed"
	fetchMembersFailedKey   = "teams.notice.fetch_members_failed"
	fetchTenanciesFailedKey = "teams.notice.fetch_tenancies_failed"
	createSuccessKey        = "teams.notice.create_success"
	createFailedKey         = "teams.notice.create_failed"
	inviteSuccessKey        = "teams.notice.invite_success"
	inviteFailedKey         = "teams.notice.invite_failed"
	nameRequiredKey         = "teams.validation.name_required"
	emailRequiredKey        = "teams.validation.email_required"
	notTeamOwnerKey         = "teams.notice.not_team_owner"
	alreadyMemberKey        = "teams.notice.already_member"
)

type service struct {
	gateway TeamsGateway
	gens    *generations
}

func newService(gateway TeamsGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway, gens: newGenerations()}
}

// mapAPIError maps a gateway failure for display with fallbackKey as the
// localized text when the server supplied none.
func mapAPIError(err error, fallbackKey string) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) == apperrors.KindUnavailable && apperrors.LocalizationKey(err) != "" {
		return apperrors.EK(apperrors.KindUnavailable, fallbackKey, err.Error())
	}
	return apperrors.FromAPI(err, fallbackKey)
}

// pageScope identifies one rendered page view of one viewer. Fetches only
// supersede each other within the same scope, so two open tabs never cancel
// each other's loads.
type pageScope struct {
	viewerID string
	view     string
}

func listKey(scope pageScope, list string, tenantID string) string {
	return scope.viewerID + "\x00" + scope.view + "\x00" + list + "\x00" + tenantID
}

func (s service) loadAllTeams(ctx context.Context, scope pageScope) (listState[Team], bool) {
	return fetchList(ctx, s.gens, listKey(scope, "all", ""), fetchTeamsFailedKey, s.gateway.ListAllTeams)
}

func (s service) loadTenancies(ctx context.Context, scope pageScope) (listState[Tenancy], bool) {
	return fetchList(ctx, s.gens, listKey(scope, "tenancies", ""), fetchTenanciesFailedKey, s.gateway.ListTenancies)
}

// loadMembers fetches the member list of tenantID. An empty team id skips the
// fetch and yields an empty list.
func (s service) loadMembers(ctx context.Context, scope pageScope, tenantID string) (listState[Member], bool) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return listState[Member]{Items: []Member{}}, true
	}
	return fetchList(ctx, s.gens, listKey(scope, "members", tenantID), fetchMembersFailedKey,
		func(ctx context.Context) ([]Member, error) {
			return s.gateway.ListMembers(ctx, tenantID)
		})
}

// ownedTeamID returns the id of the first team the viewer owns.
func ownedTeamID(tenancies []Tenancy) string {
	for _, tenancy := range tenancies {
		if tenancy.Role == roleOwner {
			return tenancy.TenantID
		}
	}
	return ""
}

// requireOwnedTeam fails unless tenantID is a team the viewer owns.
func (s service) requireOwnedTeam(ctx context.Context, tenantID string, failureKey string) error {
	tenancies, err := s.gateway.ListTenancies(ctx)
	if err != nil {
		return mapAPIError(err, failureKey)
	}
	for _, tenancy := range tenancies {
		if tenancy.TenantID == tenantID && tenancy.Role == roleOwner {
			return nil
		}
	}
	return apperrors.EK(apperrors.KindForbidden, notTeamOwnerKey, "viewer does not own team")
}

// apply requests to join tenantID.
func (s service) apply(ctx context.Context, tenantID string) error {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "core.error.invalid_input", "tenant id is required")
	}
	return mapAPIError(s.gateway.ApplyTeam(ctx, tenantID), actionNoticeKeys[actionApply].failure)
}

// memberAction runs remove, accept or reject on userID of the owned team.
func (s service) memberAction(ctx context.Context, tenantID string, userID string, action string) error {
	keys, ok := actionNoticeKeys[action]
	if !ok || (action != actionRemove && action != actionAccept && action != actionReject) {
		return apperrors.E(apperrors.KindNotFound, "unknown member action")
	}
	tenantID = strings.TrimSpace(tenantID)
	userID = strings.TrimSpace(userID)
	if tenantID == "" || userID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "core.error.invalid_input", "tenant id and user id are required")
	}
	if err := s.requireOwnedTeam(ctx, tenantID, keys.failure); err != nil {
		return err
	}
	var err error
	switch action {
	case actionRemove:
		err = s.gateway.RemoveUser(ctx, tenantID, userID)
	case actionAccept:
		err = s.gateway.HandleApplication(ctx, tenantID, userID, true)
	case actionReject:
		err = s.gateway.HandleApplication(ctx, tenantID, userID, false)
	}
	return mapAPIError(err, keys.failure)
}

// tenancyAction runs agree, refuse or quit on the viewer's tenancy. Refuse
// and quit both remove the viewer from the team.
func (s service) tenancyAction(ctx context.Context, tenantID string, viewerID string, action string) error {
	keys, ok := actionNoticeKeys[action]
	if !ok || (action != actionAgree && action != actionRefuse && action != actionQuit) {
		return apperrors.E(apperrors.KindNotFound, "unknown tenancy action")
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "core.error.invalid_input", "tenant id is required")
	}
	var err error
	switch action {
	case actionAgree:
		err = s.gateway.AgreeTeam(ctx, tenantID)
	default:
		if strings.TrimSpace(viewerID) == "" {
			return apperrors.EK(apperrors.KindUnauthorized, "core.error.unauthorized", "viewer id is required")
		}
		err = s.gateway.RemoveUser(ctx, tenantID, viewerID)
	}
	return mapAPIError(err, keys.failure)
}

// createTeam validates name and creates the team. Validation failures never
// reach the gateway.
func (s service) createTeam(ctx context.Context, name string) (CreatedTeam, error) {
	name, err := validateTeamName(name)
	if err != nil {
		return CreatedTeam{}, err
	}
	created, err := s.gateway.CreateTeam(ctx, name)
	if err != nil {
		return CreatedTeam{}, mapAPIError(err, createFailedKey)
	}
	return created, nil
}

func validateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.EK(apperrors.KindInvalidInput, nameRequiredKey, "team name is required")
	}
	return name, nil
}

// invite adds email to the owned team unless a joined user already has it.
func (s service) invite(ctx context.Context, tenantID string, email string) error {
	tenantID = strings.TrimSpace(tenantID)
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.EK(apperrors.KindInvalidInput, emailRequiredKey, "email is required")
	}
	if tenantID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "core.error.invalid_input", "tenant id is required")
	}
	if err := s.requireOwnedTeam(ctx, tenantID, inviteFailedKey); err != nil {
		return err
	}
	joined, err := s.gateway.ListJoinedUsers(ctx, tenantID)
	if err != nil {
		return mapAPIError(err, inviteFailedKey)
	}
	for _, member := range joined {
		if strings.EqualFold(strings.TrimSpace(member.Email), email) {
			return apperrors.EK(apperrors.KindConflict, alreadyMemberKey, "user already joined the team")
		}
	}
	return mapAPIError(s.gateway.InviteMember(ctx, tenantID, email), inviteFailedKey)
}
