package qrbill

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payload header and trailer values
const (
	qrType        = "SPC"
	qrVersion     = "0200"
	qrCodingType  = "1"
	referenceNone = "NON"
	trailer       = "EPD"

	// Separator joins payload fields. No separator follows the last field.
	Separator = "\r\n"

	// PayloadFieldCount is the number of fields in a payload without
	// alternative procedures.
	PayloadFieldCount = 31
)

// Bill is a validated QR-bill ready to be encoded and drawn
type Bill struct {
	IBAN     string
	Creditor Address
	Amount   decimal.Decimal
	Currency string
	// Debtor is nil for the "no debtor" variant
	Debtor   *Address
	Message  string
	Language Language
}

// Fields returns the payload fields in their mandated order
func (b *Bill) Fields() []string {
	fields := make([]string, 0, PayloadFieldCount)
	fields = append(fields, qrType, qrVersion, qrCodingType, b.IBAN)
	fields = append(fields, b.Creditor.fields()...)
	fields = append(fields, emptyAddressFields()...) // ultimate creditor, reserved
	fields = append(fields, b.Amount.StringFixed(2), b.Currency)
	if b.Debtor != nil {
		fields = append(fields, b.Debtor.fields()...)
	} else {
		fields = append(fields, emptyAddressFields()...)
	}
	fields = append(fields, referenceNone, "", field(b.Message, maxMessageLen), trailer)
	return fields
}

// Payload returns the QR code content
func (b *Bill) Payload() string {
	return strings.Join(b.Fields(), Separator)
}
