package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/domain/shared"
	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/infrastructure/printing"
	"github.com/swissbill/backend/internal/interfaces/http/dto"
	"github.com/swissbill/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getAccountID returns the account scoped by the account middleware, or the
// default account when the route runs without it
func getAccountID(c *gin.Context) string {
	if id := middleware.GetAccountID(c); id != "" {
		return id
	}
	return middleware.DefaultAccountID
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps an error from the service layer to a response.
// Domain errors keep their code and message. Render failures and unknown
// errors answer with a generic message; the detail is only logged, under
// the request ID the client receives.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	code, message := dto.ErrCodeInternal, "An unexpected error occurred"
	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		code, message = dto.NormalizeErrorCode(renderErr.Code), "The document could not be rendered"
	}

	ctx := c.Request.Context()
	fields := []zap.Field{zap.String("code", code), zap.String("route", c.FullPath()), zap.Error(err)}
	if logger.GetRequestID(ctx) == "" {
		fields = append(fields, zap.String("request_id", getRequestID(c)))
	}
	logger.L(ctx).Error("request failed", fields...)

	h.Error(c, http.StatusInternalServerError, code, message)
}
