package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swissbill/backend/internal/interfaces/http/dto"
)

func TestSystemHandler_Health(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		opts       []SystemOption
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "all checks pass",
			opts: []SystemOption{
				WithHealthCheck("redis", func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"redis": "ok"},
		},
		{
			name: "failing check degrades",
			opts: []SystemOption{
				WithHealthCheck("redis", func(context.Context) error { return errors.New("dial tcp: connection refused") }),
				WithHealthCheck("archive", func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
			wantChecks: map[string]string{
				"redis":   "error: dial tcp: connection refused",
				"archive": "ok",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]SystemOption{WithVersion("1.4.0")}, tt.opts...)
			h := NewSystemHandler("swissbill", opts...)
			h.now = func() time.Time { return fixed }

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, "swissbill", resp.Service)
			assert.Equal(t, "1.4.0", resp.Version)
			assert.True(t, fixed.Equal(resp.Timestamp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}

	t.Run("checks see a deadline", func(t *testing.T) {
		var hasDeadline bool
		h := NewSystemHandler("swissbill", WithHealthCheck("redis", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
		h.Health(c)

		assert.True(t, hasDeadline)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	h := NewSystemHandler("swissbill", WithVersion("1.4.0"))
	h.startTime = start
	h.now = func() time.Time { return start.Add(90*time.Minute + 400*time.Millisecond) }

	c, w := newTestContext("req-3")
	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "swissbill", body.Data.Name)
	assert.Equal(t, "1.4.0", body.Data.Version)
	assert.Equal(t, "1h30m0s", body.Data.Uptime)
	assert.NotEmpty(t, body.Data.GoVersion)
}
