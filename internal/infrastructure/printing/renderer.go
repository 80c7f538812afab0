package printing

import (
	"context"
	"time"

	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
)

// Document contains everything needed to render a business document.
// Totals are never supplied by the caller; the renderer derives them from
// Items.
type Document struct {
	Identity       document.Identity
	Issuer         document.Party
	Client         document.Party
	Items          []document.LineItem
	Currency       valueobject.Currency
	Locale         string
	PaymentTerms   string
	PaymentMethods string
	LateFeeNotice  string
	Footer         string
	LogoURL        string
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// Totals are the amounts printed on the document
	Totals *document.Totals
	// Slip tells whether the payment slip was drawn and, if not, why
	Slip qrbill.SlipResult
	// Logo tells whether the logo was drawn and, if not, why
	Logo LogoOutcome
	// Language is the language the document was rendered in
	Language qrbill.Language
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// DocumentRenderer defines the interface for rendering documents to PDF
type DocumentRenderer interface {
	Render(ctx context.Context, doc *Document) (*RenderResult, error)
}

// RenderError represents an unexpected error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeStorageFailed = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
