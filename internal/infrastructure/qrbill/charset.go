package qrbill

import (
	"strings"
	"unicode/utf8"
)

// Field lengths of the structured address and message
const (
	maxNameLen     = 70
	maxStreetLen   = 70
	maxBuildingLen = 16
	maxPostalLen   = 16
	maxTownLen     = 35
	maxMessageLen  = 140
)

// allowedRune reports whether r belongs to the Latin character set permitted
// in QR-bill payloads.
func allowedRune(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0xA0 && r <= 0x17F:
		return true
	case r >= 0x218 && r <= 0x21B:
		return true
	case r == 0x20AC:
		return true
	}
	return false
}

// Sanitize collapses line breaks and runs of whitespace into single spaces,
// replaces disallowed runes with '.', and trims the result.
func Sanitize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Map(func(r rune) rune {
		if allowedRune(r) {
			return r
		}
		return '.'
	}, s)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}

func field(s string, n int) string {
	return Truncate(Sanitize(s), n)
}
