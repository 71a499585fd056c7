package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

// LoginPageView renders the sign-in form.
type LoginPageView struct {
	Email string
	Error string
	Next  string
}

// LoginPage renders the sign-in card.
func LoginPage(view LoginPageView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.open("section", "class", "login-card")
		h.element("h1", T(loc, "auth.login.heading"))
		if view.Error != "" {
			h.element("p", view.Error, "class", "notice notice-error", "role", "alert")
		}
		h.open("form", "method", "post", "action", routepath.Login, "class", "login-form")
		if view.Next != "" {
			h.raw("<input type=\"hidden\" name=\"next\"")
			h.attr("value", view.Next)
			h.raw(">")
		}
		h.element("label", T(loc, "auth.login.email"), "for", "login-email")
		h.raw("<input type=\"email\" id=\"login-email\" name=\"email\" autocomplete=\"username\" required")
		h.attr("value", view.Email)
		h.raw(">")
		h.element("label", T(loc, "auth.login.password"), "for", "login-password")
		h.raw("<input type=\"password\" id=\"login-password\" name=\"password\" autocomplete=\"current-password\" required>")
		h.element("button", T(loc, "auth.login.submit"), "type", "submit")
		h.close("form")
		h.close("section")
		return h.err
	})
}
