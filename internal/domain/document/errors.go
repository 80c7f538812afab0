package document

import (
	"fmt"

	"github.com/swissbill/backend/internal/domain/shared"
)

// Error codes raised by the document domain.
const (
	CodeInvalidLineItem         = "INVALID_LINE_ITEM"
	CodeMissingIssuerData       = "MISSING_ISSUER_DATA"
	CodeDuplicateDocumentNumber = "DUPLICATE_DOCUMENT_NUMBER"
	CodeInvalidInput            = "INVALID_INPUT"
)

// ErrDuplicateDocumentNumber is returned by number reservations when the
// number is already taken. Compare with errors.Is.
var ErrDuplicateDocumentNumber = shared.NewDomainError(CodeDuplicateDocumentNumber, "Document number already exists")

// ErrMissingIssuerData is returned when the issuer carries no name.
var ErrMissingIssuerData = shared.NewDomainError(CodeMissingIssuerData, "Issuer name is required")

func invalidLineItem(line int, format string, args ...any) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidLineItem, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

func invalidInput(format string, args ...any) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidInput, fmt.Sprintf(format, args...))
}
