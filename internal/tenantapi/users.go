package tenantapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo returns the profile of the user identified by the context token.
func (c *Client) UserInfo(ctx context.Context) (Result[User], error) {
	return execute[User](ctx, c, call{
		operation: "user_info",
		method:    http.MethodGet,
		path:      "/v1/user/info",
	})
}

// Login signs a user in. The session token is read from the Authorization
// response header.
func (c *Client) Login(ctx context.Context, email string, password string) (Result[Session], error) {
	in := call{
		operation: "login",
		method:    http.MethodPost,
		path:      "/v1/user/login",
		body:      loginRequest{Email: email, Password: password},
	}
	userResult, resp, err := executeWithResponse[User](ctx, c, in)
	if err != nil {
		return Result[Session]{}, err
	}
	result := Result[Session]{Code: userResult.Code, Message: userResult.Message}
	if !userResult.OK() {
		return result, nil
	}
	token := strings.TrimSpace(resp.Header().Get("Authorization"))
	if token == "" {
		return Result[Session]{}, &TransportError{
			Operation:  in.operation,
			StatusCode: resp.StatusCode(),
			Err:        errors.New("missing authorization header"),
		}
	}
	result.Data = Session{Token: token, User: userResult.Data}
	return result, nil
}
