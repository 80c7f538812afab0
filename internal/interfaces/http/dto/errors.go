package dto

import "net/http"

// Document error codes. These are the codes raised by the document domain
// and returned to clients unchanged.
const (
	ErrCodeInvalidLineItem         = "INVALID_LINE_ITEM"
	ErrCodeMissingIssuerData       = "MISSING_ISSUER_DATA"
	ErrCodeDuplicateDocumentNumber = "DUPLICATE_DOCUMENT_NUMBER"
	ErrCodeInvalidInput            = "INVALID_INPUT"
	ErrCodeRenderFailed            = "RENDER_FAILED"
)

// Request error codes
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidJSON is used when the body is not valid JSON
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeInvalidAccount is used when the account header is malformed
	ErrCodeInvalidAccount = "INVALID_ACCOUNT"
	// ErrCodeNotFound is used for unknown routes
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTimeout is used when a request exceeded its deadline
	ErrCodeTimeout = "REQUEST_TIMEOUT"
)

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Caller errors -> 400 Bad Request
	ErrCodeInvalidLineItem: http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidAccount:  http.StatusBadRequest,

	// A document without issuer cannot be produced at all
	ErrCodeMissingIssuerData: http.StatusUnprocessableEntity,

	ErrCodeDuplicateDocumentNumber: http.StatusConflict,
	ErrCodeNotFound:                http.StatusNotFound,
	ErrCodeRequestTooLarge:         http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:             http.StatusTooManyRequests,
	ErrCodeTimeout:                 http.StatusGatewayTimeout,

	ErrCodeRenderFailed: http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps generic shared codes onto the document codes
var LegacyErrorCodeMapping = map[string]string{
	"ALREADY_EXISTS":  ErrCodeDuplicateDocumentNumber,
	"INVALID_STATE":   ErrCodeInvalidInput,
	"BAD_REQUEST":     ErrCodeInvalidInput,
	"STORAGE_FAILED":  ErrCodeRenderFailed,
	"ERR_INTERNAL":    ErrCodeInternal,
	"ERR_VALIDATION":  ErrCodeValidation,
	"ERR_BAD_REQUEST": ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
