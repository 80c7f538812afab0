package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swissbill/backend/internal/interfaces/http/dto"
)

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	service   string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	timeout   time.Duration
	now       func() time.Time
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithHealthCheck adds a named dependency check to GET /health
func WithHealthCheck(name string, check HealthCheck) SystemOption {
	return func(h *SystemHandler) {
		h.checks[name] = check
	}
}

// WithVersion sets the reported service version
func WithVersion(version string) SystemOption {
	return func(h *SystemHandler) {
		h.version = version
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(service string, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		service:   service,
		version:   "dev",
		startTime: time.Now(),
		checks:    make(map[string]HealthCheck),
		timeout:   2 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health runs the dependency checks. Any failing check turns the status
// to "degraded" and the response to 503.
//
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	var results map[string]string
	if len(names) > 0 {
		results = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(code, dto.HealthResponse{
		Status:    status,
		Service:   h.service,
		Version:   h.version,
		Timestamp: h.now().UTC(),
		Checks:    results,
	})
}

// SystemInfoResponse is the body of GET /api/v1/system/info
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns version and uptime.
//
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.service,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.now().Sub(h.startTime).Round(time.Second).String(),
	})
}
