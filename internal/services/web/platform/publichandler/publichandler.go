// Package publichandler provides a shared base for unauthenticated web module handlers.
// It centralizes error handling, localization, and page rendering that would
// otherwise be duplicated across public modules.
package publichandler

import (
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/pagerender"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

// Base provides shared error handling and page rendering for public
// (signed-out) modules.
type Base struct {
	resolveViewer   module.ResolveViewer
	resolveLanguage module.ResolveLanguage
	policy          requestmeta.SchemePolicy
}

// Option configures a Base.
type Option func(*Base)

// WithResolveViewer attaches a viewer resolver so public pages can tell a
// signed-in visitor apart.
func WithResolveViewer(rv module.ResolveViewer) Option {
	return func(b *Base) { b.resolveViewer = rv }
}

// WithResolveLanguage attaches the request language resolver.
func WithResolveLanguage(resolve module.ResolveLanguage) Option {
	return func(b *Base) { b.resolveLanguage = resolve }
}

// WithSchemePolicy sets the cookie scheme policy.
func WithSchemePolicy(policy requestmeta.SchemePolicy) Option {
	return func(b *Base) { b.policy = policy }
}

// NewBase builds a public handler base with the given options.
func NewBase(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		if o != nil {
			o(&b)
		}
	}
	return b
}

// ResolveRequestViewer resolves viewer state for the request.
// Returns a zero Viewer when no resolver is configured.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil || r == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// IsViewerSignedIn reports whether the current request is authenticated.
func (b Base) IsViewerSignedIn(r *http.Request) bool {
	return b.ResolveRequestViewer(r).SignedIn()
}

// RequestSchemePolicy returns the cookie scheme policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// WritePublicPage renders a full public page using the auth layout.
func (b Base) WritePublicPage(w http.ResponseWriter, r *http.Request, title string, statusCode int, body templ.Component) {
	pagerender.WritePublicPage(w, r, b.resolveLanguage, b.policy, pagerender.PublicPage{
		Title:      title,
		StatusCode: statusCode,
		Body:       body,
	})
}

// WriteNotFound renders a localized 404 error page using the public layout.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	loc, _ := b.PageLocalizer(w, r)
	b.WritePublicPage(w, r, webtemplates.AppErrorPageTitle(loc), http.StatusNotFound, webtemplates.AppErrorState(http.StatusNotFound, loc))
}

// WriteError renders a user-safe error response: app error pages for not-found
// and server errors, plain-text status messages for everything else.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	loc, _ := b.PageLocalizer(w, r)
	if weberror.ShouldRenderAppError(statusCode) {
		b.WritePublicPage(w, r, webtemplates.AppErrorPageTitle(loc), statusCode, webtemplates.AppErrorState(statusCode, loc))
		return
	}
	http.Error(w, weberror.PublicMessage(loc, err), statusCode)
}
