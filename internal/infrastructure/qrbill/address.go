package qrbill

import (
	"strings"
	"unicode"
)

// Address is a structured (type S) QR-bill address
type Address struct {
	Name           string
	Street         string
	BuildingNumber string
	PostalCode     string
	Town           string
	Country        string
}

// SplitStreet separates a trailing building number from a free-text street
// line: "Bahnhofstrasse 12a" yields ("Bahnhofstrasse", "12a"). Only the
// first line of a multi-line address is considered.
func SplitStreet(address string) (street, building string) {
	line := strings.TrimSpace(address)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	line = strings.TrimRight(line, ",")
	if line == "" {
		return "", ""
	}

	i := strings.LastIndexFunc(line, unicode.IsSpace)
	if i <= 0 {
		return line, ""
	}
	candidate := line[i+1:]
	if candidate == "" || !unicode.IsDigit([]rune(candidate)[0]) {
		return line, ""
	}
	return strings.TrimRight(strings.TrimSpace(line[:i]), ","), candidate
}

func (a Address) fields() []string {
	return []string{
		"S",
		field(a.Name, maxNameLen),
		field(a.Street, maxStreetLen),
		field(a.BuildingNumber, maxBuildingLen),
		field(a.PostalCode, maxPostalLen),
		field(a.Town, maxTownLen),
		a.Country,
	}
}

// Lines returns the address as printed on the slip
func (a Address) Lines() []string {
	lines := []string{a.Name}
	street := strings.TrimSpace(a.Street + " " + a.BuildingNumber)
	if street != "" {
		lines = append(lines, street)
	}
	locality := strings.TrimSpace(a.PostalCode + " " + a.Town)
	if a.Country != "" && a.Country != "CH" {
		locality = strings.TrimSpace(a.Country + "-" + locality)
	}
	return append(lines, locality)
}

func emptyAddressFields() []string {
	return make([]string, 7)
}
