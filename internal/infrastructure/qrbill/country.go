package qrbill

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCountry is used for counterparties whose country is blank or
// unrecognised. Most customers are Swiss, which makes this a business
// assumption rather than a derived fact; callers can override it.
const DefaultCountry = "CH"

var countrySynonyms = map[string]string{
	"switzerland": "CH", "schweiz": "CH", "suisse": "CH", "svizzera": "CH", "svizra": "CH",
	"swiss confederation": "CH", "confederazione svizzera": "CH", "schweizerische eidgenossenschaft": "CH",
	"liechtenstein": "LI", "fürstentum liechtenstein": "LI", "principato del liechtenstein": "LI",
	"germany": "DE", "deutschland": "DE", "allemagne": "DE", "germania": "DE",
	"austria": "AT", "österreich": "AT", "oesterreich": "AT", "autriche": "AT",
	"italy": "IT", "italien": "IT", "italie": "IT", "italia": "IT",
	"france": "FR", "frankreich": "FR", "francia": "FR",
}

// CountryNormalizer maps free-text country input to ISO 3166 alpha-2 codes
type CountryNormalizer struct {
	fallback string
}

// NewCountryNormalizer creates a normalizer falling back to fallback, or to
// DefaultCountry when fallback is not a valid country code.
func NewCountryNormalizer(fallback string) *CountryNormalizer {
	code, ok := parseCountryCode(fallback)
	if !ok {
		code = DefaultCountry
	}
	return &CountryNormalizer{fallback: code}
}

// Default returns the fallback country code
func (n *CountryNormalizer) Default() string {
	return n.fallback
}

// Normalize returns the alpha-2 code for s. recognised is false when the
// fallback was used.
func (n *CountryNormalizer) Normalize(s string) (code string, recognised bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return n.fallback, false
	}
	if code, ok := parseCountryCode(s); ok {
		return code, true
	}
	if code, ok := countrySynonyms[cases.Fold().String(s)]; ok {
		return code, true
	}
	return n.fallback, false
}

// NormalizeCountry normalizes s with DefaultCountry as fallback
func NormalizeCountry(s string) string {
	code, _ := NewCountryNormalizer(DefaultCountry).Normalize(s)
	return code
}

// parseCountryCode accepts two- or three-letter ISO codes of real countries
func parseCountryCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 2 && len(s) != 3 {
		return "", false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return "", false
		}
	}
	region, err := language.ParseRegion(s)
	if err != nil || !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}
