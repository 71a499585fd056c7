package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

const htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// htmxConfig lets HTMX swap 422 responses so validation fragments render.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"422","swap":true},{"code":"[45]..","swap":false,"error":true}]}`

// ToastRegionID is the DOM id of the page-level notice region.
const ToastRegionID = "toast-region"

// LanguageLink is one language switcher entry.
type LanguageLink struct {
	Label  string
	URL    string
	Active bool
}

// AppToast is a page-level notice rendered by the layout.
type AppToast struct {
	Kind    string
	Message string
}

// LayoutOptions configures the app shell.
type LayoutOptions struct {
	Title       string
	Lang        string
	Loc         Localizer
	ViewerName  string
	SignedIn    bool
	Languages   []LanguageLink
	Toast       *AppToast
	CurrentPath string
}

// AppLayout renders the full app shell around the context children.
func AppLayout(opts LayoutOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		writeDocumentHead(h, opts)
		h.raw("<body>")
		writeNav(h, opts)
		h.render(ctx, Toast(opts.Toast, opts.Loc))
		h.open("main", "id", "main", "class", "app-main")
		h.render(ctx, templ.GetChildren(ctx))
		h.close("main")
		h.raw("</body></html>")
		return h.err
	})
}

// AuthLayout renders the signed-out shell around the context children.
func AuthLayout(opts LayoutOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		writeDocumentHead(h, opts)
		h.raw("<body class=\"auth\">")
		h.render(ctx, Toast(opts.Toast, opts.Loc))
		h.open("main", "id", "main", "class", "auth-main")
		h.render(ctx, templ.GetChildren(ctx))
		h.close("main")
		writeLanguages(h, opts)
		h.raw("</body></html>")
		return h.err
	})
}

func writeDocumentHead(h *htmlWriter, opts LayoutOptions) {
	lang := opts.Lang
	if lang == "" {
		lang = "en-US"
	}
	h.raw("<!DOCTYPE html>")
	h.open("html", "lang", lang)
	h.raw("<head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
	h.raw("<meta name=\"htmx-config\"")
	h.attr("content", htmxConfig)
	h.raw(">")
	title := T(opts.Loc, "core.app.name")
	if opts.Title != "" {
		title = opts.Title + " · " + title
	}
	h.element("title", title)
	h.open("link", "rel", "stylesheet", "href", routepath.StaticPrefix+"app.css")
	h.open("script", "src", htmxScriptURL)
	h.close("script")
	h.open("script", "src", routepath.StaticPrefix+"app.js", "defer", "defer")
	h.close("script")
	h.raw("</head>")
}

func writeNav(h *htmlWriter, opts LayoutOptions) {
	h.open("nav", "class", "app-nav")
	h.element("a", T(opts.Loc, "core.app.name"), "href", routepath.AppTeams, "class", "app-brand")
	h.element("a", T(opts.Loc, "core.nav.teams"), "href", routepath.AppTeams)
	if opts.SignedIn {
		h.element("span", opts.ViewerName, "class", "app-viewer")
		h.open("form", "method", "post", "action", routepath.Logout, "class", "app-signout")
		h.element("button", T(opts.Loc, "core.nav.sign_out"), "type", "submit")
		h.close("form")
	}
	writeLanguages(h, opts)
	h.close("nav")
}

func writeLanguages(h *htmlWriter, opts LayoutOptions) {
	if len(opts.Languages) == 0 {
		return
	}
	h.open("ul", "class", "app-languages", "aria-label", T(opts.Loc, "core.nav.language"))
	for _, option := range opts.Languages {
		h.raw("<li>")
		h.raw("<a")
		h.attr("href", option.URL)
		h.attrIf(option.Active, "aria-current", "true")
		h.raw(">")
		h.text(option.Label)
		h.raw("</a></li>")
	}
	h.close("ul")
}

// Toast renders the page notice region, empty when toast is nil.
func Toast(toast *AppToast, loc Localizer) templ.Component {
	return toastRegion([]*AppToast{toast}, loc, false)
}

// Toasts renders the page notice region holding every non-empty toast.
func Toasts(loc Localizer, toasts ...*AppToast) templ.Component {
	return toastRegion(toasts, loc, false)
}

// OOBToast renders the notice region for an out-of-band HTMX swap so an
// action response can update the toast next to its main fragment.
func OOBToast(toast *AppToast, loc Localizer) templ.Component {
	return toastRegion([]*AppToast{toast}, loc, true)
}

func toastRegion(toasts []*AppToast, loc Localizer, oob bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw("<div")
		h.attr("id", ToastRegionID)
		h.attr("class", "toast-region")
		h.attr("aria-live", "polite")
		h.attrIf(oob, "hx-swap-oob", "true")
		h.raw(">")
		for _, toast := range toasts {
			if toast == nil || toast.Message == "" {
				continue
			}
			role := "status"
			if toast.Kind == "error" {
				role = "alert"
			}
			h.open("div", "class", classes("toast", "toast-"+toast.Kind), "role", role)
			h.element("span", toast.Message)
			h.element("button", T(loc, "core.notice.dismiss"), "type", "button", "onclick", "this.parentElement.remove()")
			h.close("div")
		}
		h.close("div")
		return h.err
	})
}
