package tenantapi

import (
	"context"
	"strings"
)

type authorizationKey struct{}

// WithAuthorization returns ctx carrying the upstream Authorization token.
func WithAuthorization(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authorizationKey{}, token)
}

// AuthorizationFromContext returns the Authorization token carried by ctx.
func AuthorizationFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(authorizationKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
