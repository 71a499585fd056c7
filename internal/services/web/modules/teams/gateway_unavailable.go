package teams

import (
	"context"

	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "core.error.unavailable", "tenant api is not configured")
}

func (unavailableGateway) ListAllTeams(context.Context) ([]Team, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListTenancies(context.Context) ([]Tenancy, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListMembers(context.Context, string) ([]Member, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListJoinedUsers(context.Context, string) ([]Member, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ApplyTeam(context.Context, string) error {
	return errUnavailable()
}

func (unavailableGateway) HandleApplication(context.Context, string, string, bool) error {
	return errUnavailable()
}

func (unavailableGateway) RemoveUser(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableGateway) AgreeTeam(context.Context, string) error {
	return errUnavailable()
}

func (unavailableGateway) CreateTeam(context.Context, string) (CreatedTeam, error) {
	return CreatedTeam{}, errUnavailable()
}

func (unavailableGateway) InviteMember(context.Context, string, string) error {
	return errUnavailable()
}
