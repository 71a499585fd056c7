package teams

import "context"

// Team is one joinable team in the all-teams list.
type Team struct {
	TenantID   string
	Name       string
	OwnerName  string
	OwnerEmail string
	CreatedAt  string
	UpdatedAt  string
	HasApplied bool
}

// Member is one user row of the owned team's member list.
type Member struct {
	UserID    string
	Nickname  string
	Email     string
	Role      string
	JoinedAt  string
	UpdatedAt string
}

// Tenancy is the viewer's membership of one team.
type Tenancy struct {
	TenantID   string
	Name       string
	Role       string
	OwnerName  string
	OwnerEmail string
}

// CreatedTeam is the team returned by a successful create.
type CreatedTeam struct {
	TenantID string
	Name     string
}

// Wire roles. The tenant API reports an invitation as "invite"; "invited" is
// accepted as the same role.
const (
	roleOwner   = "owner"
	roleNormal  = "normal"
	roleInvite  = "invite"
	roleInvited = "invited"
	rolePending = "pending"
)

func isInvitation(role string) bool {
	return role == roleInvite || role == roleInvited
}

// TeamsGateway issues the tenant API calls behind the teams screens. Every
// method performs exactly one upstream request.
type TeamsGateway interface {
	ListAllTeams(ctx context.Context) ([]Team, error)
	ListTenancies(ctx context.Context) ([]Tenancy, error)
	ListMembers(ctx context.Context, tenantID string) ([]Member, error)
	// ListJoinedUsers lists only the users who joined tenantID.
	ListJoinedUsers(ctx context.Context, tenantID string) ([]Member, error)
	ApplyTeam(ctx context.Context, tenantID string) error
	HandleApplication(ctx context.Context, tenantID string, userID string, accept bool) error
	RemoveUser(ctx context.Context, tenantID string, userID string) error
	AgreeTeam(ctx context.Context, tenantID string) error
	CreateTeam(ctx context.Context, name string) (CreatedTeam, error)
	InviteMember(ctx context.Context, tenantID string, email string) error
}
