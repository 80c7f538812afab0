package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys written by the RequestID and Account middleware.
const (
	ginRequestIDKey = "request_id"
	ginAccountIDKey = "account_id"
)

// Response headers copied into the access log when a handler sets them.
var loggedHeaders = map[string]string{
	"X-Payment-Slip": "payment_slip",
	"X-Page-Count":   "page_count",
}

// GinMiddleware stores a request-scoped logger in the request context and
// writes one access log entry per request. 5xx responses log at error
// level and 4xx at warn.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(ginRequestIDKey)

		reqLogger := base.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		ctx := WithContext(c.Request.Context(), reqLogger)
		if requestID != "" {
			ctx = context.WithValue(ctx, RequestIDKey, requestID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, zap.String("user_agent", ua))
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if account := c.GetString(ginAccountIDKey); account != "" {
			fields = append(fields, zap.String("account_id", account))
		}
		for header, key := range loggedHeaders {
			if v := c.Writer.Header().Get(header); v != "" {
				fields = append(fields, zap.String(key, v))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		reqLogger.Log(level, "HTTP Request", fields...)
	}
}

// Recovery turns a panic into a 500 error envelope without leaking the
// panic value to the client.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(ginRequestIDKey)
			base.Error("Panic recovered",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("error", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":    false,
				"error":      gin.H{"code": "INTERNAL_ERROR", "message": "An unexpected error occurred"},
				"request_id": requestID,
			})
		}()
		c.Next()
	}
}
