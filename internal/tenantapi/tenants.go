package tenantapi

import (
	"context"
	"net/http"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type addTeamUserRequest struct {
	Email string `json:"email"`
}

type handleApplicationRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

// CreateTeam creates a team owned by the caller.
func (c *Client) CreateTeam(ctx context.Context, name string) (Result[CreatedTeam], error) {
	return execute[CreatedTeam](ctx, c, call{
		operation: "create_team",
		method:    http.MethodPost,
		path:      "/v1/tenant/create",
		body:      createTeamRequest{Name: name},
	})
}

// ListTenancies lists the caller's own team memberships.
func (c *Client) ListTenancies(ctx context.Context) (Result[[]Tenancy], error) {
	return execute[[]Tenancy](ctx, c, call{
		operation: "list_tenancies",
		method:    http.MethodGet,
		path:      "/v1/tenant/list",
	})
}

// ListAllTeams lists every team the caller may apply to.
func (c *Client) ListAllTeams(ctx context.Context) (Result[[]Team], error) {
	return execute[[]Team](ctx, c, call{
		operation: "list_all_teams",
		method:    http.MethodGet,
		path:      "/v1/tenant/all",
	})
}

// AddTeamUser invites a user to a team by email.
func (c *Client) AddTeamUser(ctx context.Context, tenantID string, email string) (Result[Empty], error) {
	return execute[Empty](ctx, c, call{
		operation:  "add_team_user",
		method:     http.MethodPost,
		path:       "/v1/tenant/{tenantID}/user",
		pathParams: map[string]string{"tenantID": tenantID},
		body:       addTeamUserRequest{Email: email},
	})
}

// ListTeamUsers lists the joined users of a team.
func (c *Client) ListTeamUsers(ctx context.Context, tenantID string) (Result[[]Member], error) {
	return execute[[]Member](ctx, c, call{
		operation:  "list_team_users",
		method:     http.MethodGet,
		path:       "/v1/tenant/{tenantID}/user/list",
		pathParams: map[string]string{"tenantID": tenantID},
	})
}

// DeleteTeamUser removes a user from a team. It serves member removal,
// invitation refusal and quitting a team.
func (c *Client) DeleteTeamUser(ctx context.Context, tenantID string, userID string) (Result[Empty], error) {
	return execute[Empty](ctx, c, call{
		operation:  "delete_team_user",
		method:     http.MethodDelete,
		path:       "/v1/tenant/{tenantID}/user/{userID}",
		pathParams: map[string]string{"tenantID": tenantID, "userID": userID},
	})
}

// AgreeTeam accepts a pending team invitation.
func (c *Client) AgreeTeam(ctx context.Context, tenantID string) (Result[Empty], error) {
	return execute[Empty](ctx, c, call{
		operation:  "agree_team",
		method:     http.MethodPut,
		path:       "/v1/tenant/agree/{tenantID}",
		pathParams: map[string]string{"tenantID": tenantID},
	})
}

// GetTeamMembers lists every member of a team, pending applicants included.
func (c *Client) GetTeamMembers(ctx context.Context, tenantID string) (Result[[]Member], error) {
	return execute[[]Member](ctx, c, call{
		operation:  "get_team_members",
		method:     http.MethodGet,
		path:       "/v1/tenant/{tenantID}/members",
		pathParams: map[string]string{"tenantID": tenantID},
	})
}

// ApplyTeam requests to join a team.
func (c *Client) ApplyTeam(ctx context.Context, tenantID string) (Result[Empty], error) {
	return execute[Empty](ctx, c, call{
		operation:  "apply_team",
		method:     http.MethodPost,
		path:       "/v1/tenant/{tenantID}/apply",
		pathParams: map[string]string{"tenantID": tenantID},
	})
}

// HandleApplication accepts or rejects a pending application.
func (c *Client) HandleApplication(ctx context.Context, tenantID string, userID string, action string) (Result[Empty], error) {
	return execute[Empty](ctx, c, call{
		operation:  "handle_application",
		method:     http.MethodPost,
		path:       "/v1/tenant/{tenantID}/handle_application",
		pathParams: map[string]string{"tenantID": tenantID},
		body:       handleApplicationRequest{UserID: userID, Action: action},
	})
}
