package document

import "strings"

// DocType identifies the kind of business document
type DocType string

const (
	TypeInvoice DocType = "invoice"
	TypeQuote   DocType = "quote"
	TypeOrder   DocType = "order"
)

// ParseDocType parses a document type, case-insensitively
func ParseDocType(s string) (DocType, error) {
	t := DocType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", invalidInput("unknown document type %q", s)
	}
	return t, nil
}

// IsValid checks if the type is a known DocType
func (t DocType) IsValid() bool {
	switch t {
	case TypeInvoice, TypeQuote, TypeOrder:
		return true
	}
	return false
}

// Prefix returns the document number prefix for the type
func (t DocType) Prefix() string {
	switch t {
	case TypeInvoice:
		return "INV"
	case TypeQuote:
		return "QT"
	case TypeOrder:
		return "ORD"
	}
	return ""
}

// String returns the string representation of DocType
func (t DocType) String() string {
	return string(t)
}

// Status is the lifecycle state of a document. The set of valid values
// depends on the document type.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

var statusesByType = map[DocType][]Status{
	TypeInvoice: {StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled},
	TypeQuote:   {StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired},
	TypeOrder:   {StatusDraft, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled},
}

// Statuses returns the statuses valid for the document type
func (t DocType) Statuses() []Status {
	out := make([]Status, len(statusesByType[t]))
	copy(out, statusesByType[t])
	return out
}

// AllowsStatus reports whether s is a valid status for the type
func (t DocType) AllowsStatus(s Status) bool {
	for _, candidate := range statusesByType[t] {
		if candidate == s {
			return true
		}
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}
