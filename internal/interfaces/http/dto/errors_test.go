package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInvalidLineItem, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeMissingIssuerData, http.StatusUnprocessableEntity},
		{ErrCodeDuplicateDocumentNumber, http.StatusConflict},
		{ErrCodeRenderFailed, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeInternal, http.StatusInternalServerError},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ALREADY_EXISTS", ErrCodeDuplicateDocumentNumber},
		{"STORAGE_FAILED", ErrCodeRenderFailed},
		{"BAD_REQUEST", ErrCodeInvalidInput},
		// Document codes pass through unchanged
		{ErrCodeInvalidLineItem, ErrCodeInvalidLineItem},
		{ErrCodeMissingIssuerData, ErrCodeMissingIssuerData},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizedCodesHaveStatus(t *testing.T) {
	for legacy, code := range LegacyErrorCodeMapping {
		t.Run(legacy, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[code]
			assert.True(t, ok, "normalized code %s should be in ErrorCodeHTTPStatus", code)
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("ALREADY_EXISTS", "Document number already exists", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDuplicateDocumentNumber, resp.Error.Code)
	assert.Equal(t, "Document number already exists", resp.Error.Message)
	assert.Equal(t, "req-123", resp.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "document_number", Message: "This field is required"},
		{Field: "date", Message: "Must be a date in YYYY-MM-DD format"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "document_number", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeRenderFailed, "Document could not be rendered", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "req-test-123", decoded["request_id"])
	assert.NotContains(t, decoded, "data")

	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ErrCodeRenderFailed, errObj["code"])
	assert.Equal(t, "Document could not be rendered", errObj["message"])
	assert.NotContains(t, errObj, "details")
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"number": "INV-2501-001"})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Empty(t, resp.RequestID)
}
