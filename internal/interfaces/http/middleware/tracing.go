// Package middleware provides the HTTP middleware of the document service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/swissbill/backend/internal/infrastructure/telemetry"
)

// TracingConfig configures the server span middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are served without a span, e.g. load balancer probes
	SkipPaths []string
}

// DefaultTracingConfig traces everything except the health probes
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "swissbill",
		Enabled:     true,
		SkipPaths:   []string{"/health", "/api/v1/health"},
	}
}

// Tracing starts a server span per request through otelgin. Spans are
// named "{method} {route}" and continue an incoming traceparent.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	traced := otelgin.Middleware(cfg.ServiceName)
	if len(cfg.SkipPaths) == 0 {
		return traced
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		traced(c)
	}
}

// SpanAttributes annotates the request span after the handlers ran. It
// adds request_id, account_id and the payment slip outcome, and marks 4xx
// and 5xx responses as errors. Install it after Tracing and Account.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		attrs := make([]attribute.KeyValue, 0, 4)
		if requestID := getRequestIDFromContext(c); requestID != "" {
			attrs = append(attrs, attribute.String("request_id", requestID))
		}
		if account := GetAccountID(c); account != "" {
			attrs = append(attrs, attribute.String("account_id", account))
		}
		if slip := c.Writer.Header().Get("X-Payment-Slip"); slip != "" {
			attrs = append(attrs, telemetry.SpanSlipStatus.String(slip))
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			attrs = append(attrs, attribute.Int("http.status_code", status))
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		span.SetAttributes(attrs...)
	}
}
