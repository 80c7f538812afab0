package document

import "strings"

// Party is either side of a document: the issuing company (creditor) or
// the client (debtor). Only the creditor carries an IBAN.
type Party struct {
	Name       string
	Address    string
	PostalCode string
	City       string
	Country    string
	IBAN       string
	Email      string
	Phone      string
	VATNumber  string
}

// HasName reports whether the party carries a non-blank name
func (p Party) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// AddressLines returns the non-empty postal lines of the party, name first.
func (p Party) AddressLines() []string {
	lines := make([]string, 0, 4)
	for _, l := range []string{p.Name, p.Address} {
		if s := strings.TrimSpace(l); s != "" {
			lines = append(lines, s)
		}
	}
	locality := strings.TrimSpace(strings.TrimSpace(p.PostalCode) + " " + strings.TrimSpace(p.City))
	if locality != "" {
		lines = append(lines, locality)
	}
	if c := strings.TrimSpace(p.Country); c != "" {
		lines = append(lines, c)
	}
	return lines
}
