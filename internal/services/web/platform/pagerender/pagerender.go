// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	flashnotice "github.com/louisbranch/teamdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/teamdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

// RequestResolver resolves viewer, language and cookie policy from a request.
// This decouples platform rendering from the module-layer Dependencies type.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	ResolveRequestLanguage(r *http.Request) string
	RequestSchemePolicy() requestmeta.SchemePolicy
}

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage writes a module page. HTMX requests receive the bare
// fragment; full navigations receive the app shell with any pending flash
// notice.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	var resolveLanguage module.ResolveLanguage
	var policy requestmeta.SchemePolicy
	viewer := module.Viewer{}
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
		policy = resolver.RequestSchemePolicy()
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	ctx := httpx.RequestContext(r)

	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
		writeHTML(w, statusCode, buf.Bytes())
		return nil
	}

	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
	}
	opts := webtemplates.LayoutOptions{
		Title:       page.Title,
		Lang:        lang,
		Loc:         loc,
		ViewerName:  viewer.DisplayName(),
		SignedIn:    viewer.SignedIn(),
		Languages:   languageLinks(r, loc, lang),
		Toast:       resolveFlashToast(w, r, loc, policy),
		CurrentPath: requestPath(r),
	}
	if err := webtemplates.AppLayout(opts).Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	writeHTML(w, statusCode, buf.Bytes())
	return nil
}

// WriteFragment writes component alone, regardless of HTMX headers.
func WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, component templ.Component) error {
	if w == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if component == nil {
		component = emptyComponent{}
	}
	var buf bytes.Buffer
	if err := component.Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	writeHTML(w, statusCode, buf.Bytes())
	return nil
}

// PublicPage describes a signed-out page.
type PublicPage struct {
	Title      string
	StatusCode int
	Body       templ.Component
}

// WritePublicPage writes a public (unauthenticated) page using the auth layout.
func WritePublicPage(w http.ResponseWriter, r *http.Request, resolveLanguage module.ResolveLanguage, policy requestmeta.SchemePolicy, page PublicPage) {
	if w == nil {
		return
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = emptyComponent{}
	}

	loc, lang := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	opts := webtemplates.LayoutOptions{
		Title:       page.Title,
		Lang:        lang,
		Loc:         loc,
		Languages:   languageLinks(r, loc, lang),
		Toast:       resolveFlashToast(w, r, loc, policy),
		CurrentPath: requestPath(r),
	}
	var rendered bytes.Buffer
	if err := webtemplates.AuthLayout(opts).Render(templ.WithChildren(httpx.RequestContext(r), body), &rendered); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, statusCode, rendered.Bytes())
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.AppToast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(notice.Message)
	if message == "" && notice.Key != "" {
		message = strings.TrimSpace(loc.Sprintf(notice.Key))
	}
	if message == "" {
		return nil
	}
	return &webtemplates.AppToast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}

func languageLinks(r *http.Request, loc webi18n.Localizer, lang string) []webtemplates.LanguageLink {
	query := ""
	if r != nil && r.URL != nil {
		query = r.URL.RawQuery
	}
	options := webi18n.LanguageOptions(loc, lang, requestPath(r), query)
	links := make([]webtemplates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, webtemplates.LanguageLink{Label: option.Label, URL: option.URL, Active: option.Active})
	}
	return links
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
