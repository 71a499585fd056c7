// Package i18n exposes the supported language tags backed by the embedded
// message catalogs.
package i18n

import (
	"strings"

	"github.com/louisbranch/teamdesk/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

var (
	supportedTags = buildSupportedTags()
	matcher       = language.NewMatcher(supportedTags)
)

// SupportedTags returns the supported language tags, base locale first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the catalog base locale tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses a language value and reports whether it maps to a
// supported locale with at least exact base-language confidence.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags returns the best supported tag for an ordered preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

func buildSupportedTags() []language.Tag {
	tags := []language.Tag{language.MustParse(catalog.BaseLocale)}
	for _, locale := range catalog.Default().Locales() {
		if locale == catalog.BaseLocale {
			continue
		}
		tags = append(tags, language.MustParse(locale))
	}
	return tags
}
