package document

import (
	"strings"
	"time"
)

// Identity carries the caller-supplied identifying data of a document.
// It is created per render request and never mutated by the renderer.
type Identity struct {
	Type       DocType
	Number     string
	Date       time.Time
	DueDate    *time.Time
	ValidUntil *time.Time
	Status     Status
	Notes      string
}

// Validate checks the identity for a render request
func (i Identity) Validate() error {
	if !i.Type.IsValid() {
		return invalidInput("unknown document type %q", i.Type)
	}
	if strings.TrimSpace(i.Number) == "" {
		return invalidInput("document number is required")
	}
	if i.Date.IsZero() {
		return invalidInput("document date is required")
	}
	if i.Status != "" && !i.Type.AllowsStatus(i.Status) {
		return invalidInput("status %q is not valid for %s", i.Status, i.Type)
	}
	if i.DueDate != nil && i.DueDate.Before(i.Date) {
		return invalidInput("due date is before document date")
	}
	if i.ValidUntil != nil && i.ValidUntil.Before(i.Date) {
		return invalidInput("valid-until date is before document date")
	}
	return nil
}

// Deadline returns the date shown next to the document date: the due date
// for invoices, the validity limit for quotes, nothing for orders.
func (i Identity) Deadline() *time.Time {
	switch i.Type {
	case TypeInvoice:
		return i.DueDate
	case TypeQuote:
		return i.ValidUntil
	}
	return nil
}
