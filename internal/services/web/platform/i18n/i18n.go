// Package i18n resolves the request language and its message printer.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/teamdesk/internal/platform/i18n"
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "teamdesk_lang"
)

// Localizer formats catalog messages for one language.
type Localizer interface {
	Sprintf(key message.Reference, a ...any) string
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// RequestTag determines the best language tag from query, cookie and
// Accept-Language, in that order. The bool reports whether the query param
// selected the language and should be persisted.
func RequestTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if r.URL != nil {
		if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
			if tag, ok := platformi18n.ParseTag(value); ok {
				return tag, true
			}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// ResolveTag returns the tag chosen by resolve, falling back to RequestTag.
func ResolveTag(r *http.Request, resolve module.ResolveLanguage) language.Tag {
	if resolve != nil {
		if tag, ok := platformi18n.ParseTag(resolve(r)); ok {
			return tag
		}
	}
	tag, _ := RequestTag(r)
	return tag
}

// ResolveLocalizer returns the request localizer and language, persisting a
// query-selected language in the language cookie.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, resolve module.ResolveLanguage) (Localizer, string) {
	if tag, persist := RequestTag(r); persist {
		SetLanguageCookie(w, tag)
	}
	tag := ResolveTag(r, resolve)
	return Printer(tag), tag.String()
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOptions builds the language switcher for the current URL.
func LanguageOptions(loc Localizer, activeLang string, path string, rawQuery string) []LanguageOption {
	active, _ := platformi18n.ParseTag(activeLang)
	supported := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		label := tag.String()
		if loc != nil {
			key := "core.lang." + strings.ToLower(strings.ReplaceAll(tag.String(), "-", "_"))
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				label = localized
			}
		}
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  label,
			URL:    languageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

func languageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// LocalizeError returns a user-safe message for err: server-supplied text
// for rejected API calls, then the localized key, then the HTTP status text.
func LocalizeError(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	if message := apperrors.ServerMessage(err); message != "" {
		return message
	}
	if key := apperrors.LocalizationKey(err); key != "" && loc != nil {
		if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
			return localized
		}
	}
	return http.StatusText(apperrors.HTTPStatus(err))
}
