package auth

import (
	"context"
	"log"

	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

// LoginClient is the tenant API surface used for sign-in.
type LoginClient interface {
	Login(ctx context.Context, email string, password string) (tenantapi.Result[tenantapi.Session], error)
	UserInfo(ctx context.Context) (tenantapi.Result[tenantapi.User], error)
}

var _ LoginClient = (*tenantapi.Client)(nil)

// NewAPIGateway returns a gateway backed by client, or the unavailable
// gateway when client is nil.
func NewAPIGateway(client LoginClient) AuthGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return apiGateway{client: client}
}

type apiGateway struct {
	client LoginClient
}

func (g apiGateway) Login(ctx context.Context, email string, password string) (SignIn, error) {
	result, err := g.client.Login(ctx, email, password)
	if err != nil {
		log.Printf("auth: tenant api transport failure op=login err=%v", err)
		return SignIn{}, err
	}
	if err := result.Err(); err != nil {
		return SignIn{}, err
	}
	user := g.profile(tenantapi.WithAuthorization(ctx, result.Data.Token), result.Data.User)
	return SignIn{
		Token:    result.Data.Token,
		UserID:   user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
	}, nil
}

// profile reads the signed-in user record, keeping the login payload when
// the lookup fails or disagrees on the user id.
func (g apiGateway) profile(ctx context.Context, fallback tenantapi.User) tenantapi.User {
	result, err := g.client.UserInfo(ctx)
	if err != nil {
		log.Printf("auth: tenant api transport failure op=user_info user_id=%s err=%v", fallback.ID, err)
		return fallback
	}
	if err := result.Err(); err != nil {
		log.Printf("auth: user info rejected user_id=%s err=%v", fallback.ID, err)
		return fallback
	}
	if result.Data.ID == "" || (fallback.ID != "" && result.Data.ID != fallback.ID) {
		return fallback
	}
	return result.Data
}
