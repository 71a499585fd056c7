package auth

import "context"

// SignIn is the outcome of a successful credential check.
type SignIn struct {
	Token    string
	UserID   string
	Nickname string
	Email    string
}

// AuthGateway checks credentials against the tenant API.
type AuthGateway interface {
	Login(ctx context.Context, email string, password string) (SignIn, error)
}
