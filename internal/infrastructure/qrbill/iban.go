package qrbill

import (
	"strings"
	"unicode"
)

const qrIBANLength = 21

// CleanIBAN strips all whitespace and upper-cases the IBAN
func CleanIBAN(iban string) string {
	var b strings.Builder
	for _, r := range iban {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidIBAN reports whether a cleaned IBAN is a Swiss or Liechtenstein IBAN
// with a correct ISO 7064 mod 97-10 check.
func ValidIBAN(iban string) bool {
	if len(iban) != qrIBANLength {
		return false
	}
	if !strings.HasPrefix(iban, "CH") && !strings.HasPrefix(iban, "LI") {
		return false
	}
	for _, r := range iban[2:] {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return mod97(iban[4:]+iban[:4]) == 1
}

func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			rem = (rem*100 + int(r-'A'+10)) % 97
		default:
			return -1
		}
	}
	return rem
}

// IsQRIBAN reports whether the IBAN's institution id lies in the QR-IID
// range 30000-31999. QR-IBANs require a QR reference.
func IsQRIBAN(iban string) bool {
	if len(iban) != qrIBANLength {
		return false
	}
	iid := iban[4:9]
	return iid >= "30000" && iid <= "31999"
}

// FormatIBAN groups the IBAN in blocks of four for display
func FormatIBAN(iban string) string {
	var b strings.Builder
	for i, r := range iban {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
