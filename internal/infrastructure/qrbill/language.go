package qrbill

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the four slip languages
type Language string

const (
	German  Language = "de"
	English Language = "en"
	Italian Language = "it"
	French  Language = "fr"
)

// DefaultLanguage is used when a locale maps to none of the slip languages
const DefaultLanguage = Italian

var (
	slipLanguages = []Language{German, English, Italian, French}
	langMatcher   = language.NewMatcher([]language.Tag{
		language.German, language.English, language.Italian, language.French,
	})
)

// ParseLanguage parses a two-letter slip language code
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, candidate := range slipLanguages {
		if l == candidate {
			return l, true
		}
	}
	return "", false
}

// ResolveLanguage maps a locale such as "de-CH" or "fr_CH" to a slip
// language, falling back to def when no slip language matches.
func ResolveLanguage(locale string, def Language) Language {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return def
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return def
	}
	_, index, confidence := langMatcher.Match(tag)
	if confidence == language.No {
		return def
	}
	return slipLanguages[index]
}
