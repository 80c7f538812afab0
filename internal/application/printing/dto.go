package printing

import (
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of every date in requests and responses
const DateLayout = "2006-01-02"

// =============================================================================
// Shared DTOs
// =============================================================================

// PartyDTO is the issuer or the client of a document
type PartyDTO struct {
	Name       string `json:"name" binding:"max=200"`
	Address    string `json:"address" binding:"max=200"`
	PostalCode string `json:"postal_code" binding:"max=16"`
	City       string `json:"city" binding:"max=100"`
	Country    string `json:"country" binding:"max=64"`
	IBAN       string `json:"iban" binding:"max=42"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"max=40"`
	VATNumber  string `json:"vat_number" binding:"max=40"`
}

// LineItemDTO is one billable row. Omitting tax_rate applies the standard rate.
type LineItemDTO struct {
	Description string           `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// =============================================================================
// Render DTOs
// =============================================================================

// RenderRequest is a request to render a document to PDF. It carries no
// subtotal, tax or total; those are recomputed from the items.
type RenderRequest struct {
	Type           string        `json:"type" binding:"omitempty,oneof=invoice quote order"`
	DocumentNumber string        `json:"document_number" binding:"required,max=64"`
	Date           string        `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate        string        `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ValidUntil     string        `json:"valid_until" binding:"omitempty,datetime=2006-01-02"`
	Status         string        `json:"status" binding:"max=32"`
	Notes          string        `json:"notes" binding:"max=2000"`
	Issuer         PartyDTO      `json:"issuer"`
	Party          PartyDTO      `json:"party"`
	Items          []LineItemDTO `json:"items" binding:"max=1000,dive"`
	Locale         string        `json:"locale" binding:"max=35"`
	Currency       string        `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms   string        `json:"payment_terms" binding:"max=1000"`
	PaymentMethods string        `json:"payment_methods" binding:"max=1000"`
	LateFeeNotice  string        `json:"late_fee_notice" binding:"max=1000"`
	Footer         string        `json:"footer" binding:"max=500"`
	LogoURL        string        `json:"logo_url" binding:"omitempty,url"`
}

// RenderOutput is a rendered document ready to be streamed
type RenderOutput struct {
	PDFData   []byte
	Filename  string
	PageCount int
	// SlipStatus is "rendered" or "skipped:<reason>"
	SlipStatus string
	Language   string
	Totals     TotalsResponse
	// ArchiveURL is empty unless the PDF was archived
	ArchiveURL  string
	ArchivePath string
}

// =============================================================================
// Totals DTOs
// =============================================================================

// TotalsRequest is a request to compute document totals
type TotalsRequest struct {
	Items    []LineItemDTO `json:"items" binding:"max=1000,dive"`
	Currency string        `json:"currency" binding:"omitempty,len=3"`
}

// LineTotalsResponse are the derived amounts of one line
type LineTotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	TaxRate  string `json:"tax_rate"`
}

// TotalsResponse are the derived amounts of a document. average_tax_rate is
// the unweighted mean of the distinct rates; effective_tax_rate is
// tax_amount / subtotal.
type TotalsResponse struct {
	Currency         string               `json:"currency"`
	Lines            []LineTotalsResponse `json:"lines"`
	Subtotal         string               `json:"subtotal"`
	TaxAmount        string               `json:"tax_amount"`
	Total            string               `json:"total"`
	AverageTaxRate   string               `json:"average_tax_rate"`
	EffectiveTaxRate string               `json:"effective_tax_rate"`
	BlendedTax       string               `json:"blended_tax"`
	MixedTaxRates    bool                 `json:"mixed_tax_rates"`
}

// =============================================================================
// Number DTOs
// =============================================================================

// GenerateNumberRequest is a request for a new document number
type GenerateNumberRequest struct {
	Type string `json:"type" binding:"required,oneof=invoice quote order"`
}

// NumberResponse is a generated and reserved document number
type NumberResponse struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// =============================================================================
// QR payload DTOs
// =============================================================================

// QRPayloadRequest asks for the QR-bill payload of a document. The amount
// is the document total computed from the items.
type QRPayloadRequest struct {
	Type           string        `json:"type" binding:"omitempty,oneof=invoice quote order"`
	DocumentNumber string        `json:"document_number" binding:"max=64"`
	Issuer         PartyDTO      `json:"issuer"`
	Party          PartyDTO      `json:"party"`
	Items          []LineItemDTO `json:"items" binding:"max=1000,dive"`
	Locale         string        `json:"locale" binding:"max=35"`
	Currency       string        `json:"currency" binding:"omitempty,len=3"`
}

// QRPayloadResponse is either the payload of a valid bill or the reason no
// slip would be printed
type QRPayloadResponse struct {
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Detail   string   `json:"detail,omitempty"`
	Payload  string   `json:"payload,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	IBAN     string   `json:"iban,omitempty"`
	Amount   string   `json:"amount"`
	Currency string   `json:"currency,omitempty"`
	Language string   `json:"language,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// =============================================================================
// Reference Data DTOs
// =============================================================================

// DocumentTypeResponse describes a document type and its statuses
type DocumentTypeResponse struct {
	Code     string   `json:"code"`
	Prefix   string   `json:"prefix"`
	Statuses []string `json:"statuses"`
}
