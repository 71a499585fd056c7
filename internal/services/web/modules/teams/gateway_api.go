package teams

import (
	"context"
	"log"

	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

// TenantClient is the tenant API surface used by the teams gateway.
type TenantClient interface {
	ListAllTeams(context.Context) (tenantapi.Result[[]tenantapi.Team], error)
	ListTenancies(context.Context) (tenantapi.Result[[]tenantapi.Tenancy], error)
	GetTeamMembers(context.Context, string) (tenantapi.Result[[]tenantapi.Member], error)
	ApplyTeam(context.Context, string) (tenantapi.Result[tenantapi.Empty], error)
	HandleApplication(context.Context, string, string, string) (tenantapi.Result[tenantapi.Empty], error)
	DeleteTeamUser(context.Context, string, string) (tenantapi.Result[tenantapi.Empty], error)
	AgreeTeam(context.Context, string) (tenantapi.Result[tenantapi.Empty], error)
	CreateTeam(context.Context, string) (tenantapi.Result[tenantapi.CreatedTeam], error)
	AddTeamUser(context.Context, string, string) (tenantapi.Result[tenantapi.Empty], error)
	ListTeamUsers(context.Context, string) (tenantapi.Result[[]tenantapi.Member], error)
}

var _ TenantClient = (*tenantapi.Client)(nil)

// NewAPIGateway maps tenant API responses into teams module types. A nil
// client yields the unavailable gateway.
func NewAPIGateway(client TenantClient) TeamsGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return apiGateway{client: client}
}

type apiGateway struct {
	client TenantClient
}

// unwrap converts a call outcome into data or error, logging transport
// failures with the operation and team they concern.
func unwrap[T any](op string, tenantID string, result tenantapi.Result[T], err error) (T, error) {
	if err != nil {
		log.Printf("teams: tenant api transport failure op=%s tenant_id=%s err=%v", op, tenantID, err)
		var zero T
		return zero, err
	}
	if err := result.Err(); err != nil {
		var zero T
		return zero, err
	}
	return result.Data, nil
}

func (g apiGateway) ListAllTeams(ctx context.Context) ([]Team, error) {
	result, err := g.client.ListAllTeams(ctx)
	records, err := unwrap("list_all_teams", "", result, err)
	if err != nil {
		return nil, err
	}
	teams := make([]Team, 0, len(records))
	for _, record := range records {
		teams = append(teams, Team{
			TenantID:   record.TenantID,
			Name:       record.Name,
			OwnerName:  record.OwnerName,
			OwnerEmail: record.OwnerEmail,
			CreatedAt:  record.CreateDate.String(),
			UpdatedAt:  record.UpdateDate.String(),
			HasApplied: record.HasApplied,
		})
	}
	return teams, nil
}

func (g apiGateway) ListTenancies(ctx context.Context) ([]Tenancy, error) {
	result, err := g.client.ListTenancies(ctx)
	records, err := unwrap("list_tenancies", "", result, err)
	if err != nil {
		return nil, err
	}
	tenancies := make([]Tenancy, 0, len(records))
	for _, record := range records {
		tenancies = append(tenancies, Tenancy{
			TenantID:   record.TenantID,
			Name:       record.Name,
			Role:       record.Role,
			OwnerName:  record.OwnerName,
			OwnerEmail: record.OwnerEmail,
		})
	}
	return tenancies, nil
}

func (g apiGateway) ListMembers(ctx context.Context, tenantID string) ([]Member, error) {
	result, err := g.client.GetTeamMembers(ctx, tenantID)
	records, err := unwrap("get_team_members", tenantID, result, err)
	if err != nil {
		return nil, err
	}
	return mapMemberRecords(records), nil
}

func (g apiGateway) ListJoinedUsers(ctx context.Context, tenantID string) ([]Member, error) {
	result, err := g.client.ListTeamUsers(ctx, tenantID)
	records, err := unwrap("list_team_users", tenantID, result, err)
	if err != nil {
		return nil, err
	}
	return mapMemberRecords(records), nil
}

func mapMemberRecords(records []tenantapi.Member) []Member {
	members := make([]Member, 0, len(records))
	for _, record := range records {
		members = append(members, Member{
			UserID:    record.UserID,
			Nickname:  record.Nickname,
			Email:     record.Email,
			Role:      record.Role,
			JoinedAt:  record.JoinDate.String(),
			UpdatedAt: record.UpdateDate.String(),
		})
	}
	return members
}

func (g apiGateway) ApplyTeam(ctx context.Context, tenantID string) error {
	result, err := g.client.ApplyTeam(ctx, tenantID)
	_, err = unwrap("apply_team", tenantID, result, err)
	return err
}

func (g apiGateway) HandleApplication(ctx context.Context, tenantID string, userID string, accept bool) error {
	action := tenantapi.ActionReject
	if accept {
		action = tenantapi.ActionAccept
	}
	result, err := g.client.HandleApplication(ctx, tenantID, userID, action)
	_, err = unwrap("handle_application", tenantID, result, err)
	return err
}

func (g apiGateway) RemoveUser(ctx context.Context, tenantID string, userID string) error {
	result, err := g.client.DeleteTeamUser(ctx, tenantID, userID)
	_, err = unwrap("delete_team_user", tenantID, result, err)
	return err
}

func (g apiGateway) AgreeTeam(ctx context.Context, tenantID string) error {
	result, err := g.client.AgreeTeam(ctx, tenantID)
	_, err = unwrap("agree_team", tenantID, result, err)
	return err
}

func (g apiGateway) CreateTeam(ctx context.Context, name string) (CreatedTeam, error) {
	result, err := g.client.CreateTeam(ctx, name)
	record, err := unwrap("create_team", "", result, err)
	if err != nil {
		return CreatedTeam{}, err
	}
	return CreatedTeam{TenantID: record.TenantID, Name: record.Name}, nil
}

func (g apiGateway) InviteMember(ctx context.Context, tenantID string, email string) error {
	result, err := g.client.AddTeamUser(ctx, tenantID, email)
	_, err = unwrap("add_team_user", tenantID, result, err)
	return err
}
