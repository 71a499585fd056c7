// Package webctx provides shared web request context helpers.
package webctx

import (
	"context"
	"net/http"
	"strings"

	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

// WithResolvedToken returns request context carrying the session's upstream
// API token so tenant API calls are made on the viewer's behalf.
func WithResolvedToken(r *http.Request, resolve module.ResolveToken) context.Context {
	if r == nil {
		return context.Background()
	}
	ctx := r.Context()
	if resolve == nil {
		return ctx
	}
	token := strings.TrimSpace(resolve(r))
	if token == "" {
		return ctx
	}
	return tenantapi.WithAuthorization(ctx, token)
}
