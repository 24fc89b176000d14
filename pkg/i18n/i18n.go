// Package i18n localizes API messages. French is the default language.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	LangFR = "fr"
	LangEN = "en"
)

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

// DetectLanguage picks fr or en from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return LangFR
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangFR
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return LangFR
	}
	if supported[idx] == language.English {
		return LangEN
	}
	return LangFR
}

// T returns the message for key in lang, falling back to French and then to the key itself.
func T(lang, key string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := catalog[LangFR][key]; ok {
		return s
	}
	return key
}
