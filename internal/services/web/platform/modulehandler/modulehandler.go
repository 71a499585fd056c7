// Package modulehandler provides a composable base for protected web module handlers.
//
// Protected modules (those mounted under /app/) share common handler infrastructure
// for viewer resolution, localization, page rendering, and error handling. This package
// extracts that shared scaffold so modules embed it rather than duplicating it.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	flashnotice "github.com/louisbranch/teamdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/pagerender"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/webctx"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

// Base carries the shared request-scoped resolvers used by protected module handlers.
type Base struct {
	deps   module.Dependencies
	policy requestmeta.SchemePolicy
}

// NewBase builds a handler base from the composed request resolvers.
func NewBase(deps module.Dependencies, policy requestmeta.SchemePolicy) Base {
	return Base{deps: deps, policy: policy}
}

// NewTestBase builds a handler base with no-op resolvers suitable for tests
// that do not exercise viewer state.
func NewTestBase() Base {
	return Base{}
}

// ResolveRequestViewer resolves app chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.deps.ResolveViewer == nil || r == nil {
		return module.Viewer{}
	}
	return b.deps.ResolveViewer(r)
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.deps.ResolveLanguage == nil || r == nil {
		return ""
	}
	return b.deps.ResolveLanguage(r)
}

// RequestSchemePolicy returns the cookie security policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// RequestUserID extracts the authenticated user ID from the request.
func (b Base) RequestUserID(r *http.Request) string {
	if r == nil {
		return ""
	}
	if b.deps.ResolveUserID != nil {
		return strings.TrimSpace(b.deps.ResolveUserID(r))
	}
	return b.ResolveRequestViewer(r).UserID
}

// RequestContext returns a context carrying the viewer's API token.
func (b Base) RequestContext(r *http.Request) context.Context {
	return webctx.WithResolvedToken(r, b.deps.ResolveToken)
}

// RequestContextAndUserID returns the token-carrying context and the raw
// user ID.
func (b Base) RequestContextAndUserID(r *http.Request) (context.Context, string) {
	return b.RequestContext(r), b.RequestUserID(r)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r, b.deps.ResolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a full module page (HTMX-aware) with the given title and
// content fragment.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteFragment renders a component without the app shell.
func (b Base) WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, component templ.Component) {
	if err := pagerender.WriteFragment(w, r, statusCode, component); err != nil {
		b.WriteError(w, r, err)
	}
}

// RedirectWithNotice stores notice for the next page and redirects. Used by
// non-HTMX form posts.
func (b Base) RedirectWithNotice(w http.ResponseWriter, r *http.Request, location string, notice flashnotice.Notice) {
	if !notice.Empty() {
		flashnotice.Write(w, r, notice, b.policy)
	}
	httpx.WriteRedirect(w, r, location)
}
