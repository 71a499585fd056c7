package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(loc Localizer) string {
	return T(loc, "core.error.title")
}

// AppErrorMessageKey returns the catalog key describing statusCode.
func AppErrorMessageKey(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "core.error.invalid_input"
	case http.StatusUnauthorized:
		return "core.error.unauthorized"
	case http.StatusForbidden:
		return "core.error.forbidden"
	case http.StatusNotFound:
		return "core.error.not_found"
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return "core.error.unavailable"
	default:
		return "core.error.internal"
	}
}

// AppErrorState renders the in-shell error panel.
func AppErrorState(statusCode int, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.open("section", "id", "app-error-state", "class", "app-error", "data-status", itoa(statusCode))
		h.element("h1", T(loc, "core.error.title"))
		h.element("p", T(loc, AppErrorMessageKey(statusCode)))
		h.element("a", T(loc, "core.error.back"), "href", routepath.AppTeams)
		h.close("section")
		return h.err
	})
}
