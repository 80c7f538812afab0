package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swissbill/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSWithConfig(t *testing.T) {
	explicit := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://app.example.ch"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-Account-ID"},
		ExposeHeaders:    []string{"X-Payment-Slip", "X-Page-Count"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	wildcard := explicit
	wildcard.AllowOrigins = []string{"*"}

	tests := []struct {
		name            string
		cfg             CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
	}{
		{"allowed origin", explicit, http.MethodGet, "https://app.example.ch", http.StatusOK, "https://app.example.ch", "true"},
		{"second allowed origin", explicit, http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000", "true"},
		{"disallowed origin", explicit, http.MethodGet, "https://evil.example", http.StatusOK, "", ""},
		{"same origin request", explicit, http.MethodGet, "", http.StatusOK, "", ""},
		{"wildcard never sends credentials", wildcard, http.MethodGet, "https://any.example", http.StatusOK, "*", ""},
		{"empty whitelist", DefaultCORSConfig(), http.MethodGet, "https://app.example.ch", http.StatusOK, "", ""},
		{"preflight allowed", explicit, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000", "true"},
		{"preflight disallowed", explicit, http.MethodOptions, "https://evil.example", http.StatusNoContent, "", ""},
		{"preflight empty whitelist", DefaultCORSConfig(), http.MethodOptions, "https://app.example.ch", http.StatusNoContent, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveCORS(tt.cfg, tt.method, tt.origin)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantOrigin == "" {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}

	t.Run("sets method, header and expose lists", func(t *testing.T) {
		w := serveCORS(explicit, http.MethodOptions, "http://localhost:3000")

		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Account-ID", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "X-Payment-Slip, X-Page-Count", w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestCORSMaxAgeHeader(t *testing.T) {
	tests := []struct {
		maxAge   time.Duration
		expected string
	}{
		{30 * time.Second, "30"},
		{time.Minute, "60"},
		{12 * time.Hour, "43200"},
		{0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.maxAge.String(), func(t *testing.T) {
			cfg := CORSConfig{
				AllowOrigins: []string{"http://localhost:3000"},
				AllowMethods: []string{"GET"},
				MaxAge:       tt.maxAge,
			}
			w := serveCORS(cfg, http.MethodGet, "http://localhost:3000")
			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Max-Age"))
		})
	}
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, "X-Account-ID")
	assert.Contains(t, cfg.ExposeHeaders, "Content-Disposition")
	assert.Contains(t, cfg.ExposeHeaders, "X-Payment-Slip")
	assert.Contains(t, cfg.ExposeHeaders, "X-Page-Count")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("generates request ID", func(t *testing.T) {
		w := serve("")

		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		w := serve("req-42")

		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-42", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		w := serve(strings.Repeat("a", maxRequestIDLength+1))

		assert.NotEqual(t, strings.Repeat("a", maxRequestIDLength+1), w.Header().Get("X-Request-ID"))
		assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	})

	t.Run("replaces request ID with spaces", func(t *testing.T) {
		w := serve("req 42")
		assert.NotEqual(t, "req 42", w.Header().Get("X-Request-ID"))
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 36)
	assert.True(t, validRequestID(id1))
}

func TestSecureWithConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      SecurityConfig
		expected map[string]string
	}{
		{
			name: "defaults",
			cfg:  DefaultSecurityConfig(),
			expected: map[string]string{
				"X-Frame-Options":           "DENY",
				"X-XSS-Protection":          "1; mode=block",
				"X-Content-Type-Options":    "nosniff",
				"Referrer-Policy":           "strict-origin-when-cross-origin",
				"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
				"Strict-Transport-Security": "",
			},
		},
		{
			name: "HSTS with all options",
			cfg: SecurityConfig{
				HSTSEnabled:           true,
				HSTSMaxAge:            63072000,
				HSTSIncludeSubdomains: true,
				HSTSPreload:           true,
			},
			expected: map[string]string{
				"Strict-Transport-Security": "max-age=63072000; includeSubDomains; preload",
				"Content-Security-Policy":   "",
				"Permissions-Policy":        "",
			},
		},
		{
			name: "HSTS without optional flags",
			cfg:  SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 3600},
			expected: map[string]string{
				"Strict-Transport-Security": "max-age=3600",
			},
		},
		{
			name: "custom policies",
			cfg: SecurityConfig{
				CSPEnabled:                 true,
				CSPDirective:               "default-src 'self'",
				PermissionsPolicyEnabled:   true,
				PermissionsPolicyDirective: "camera=()",
			},
			expected: map[string]string{
				"Content-Security-Policy": "default-src 'self'",
				"Permissions-Policy":      "camera=()",
			},
		},
		{
			name: "enabled flags with empty directives",
			cfg:  SecurityConfig{CSPEnabled: true, PermissionsPolicyEnabled: true},
			expected: map[string]string{
				"Content-Security-Policy": "",
				"Permissions-Policy":      "",
				"X-Frame-Options":         "DENY",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SecureWithConfig(tt.cfg))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			for header, value := range tt.expected {
				assert.Equal(t, value, w.Header().Get(header), header)
			}
		})
	}
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")
	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "payment=()")
}

func TestTimeout(t *testing.T) {
	t.Run("handler finishing in time is untouched", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline := c.Request.Context().Deadline()
			assert.True(t, hasDeadline)
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("handler giving up on deadline gets 504", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID(), Timeout(10*time.Millisecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeTimeout, resp.Error.Code)
		assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
	})

	t.Run("zero timeout leaves the context alone", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(0))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline := c.Request.Context().Deadline()
			assert.False(t, hasDeadline)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
