package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("documents", "/documents").
		POST("/totals", func(c *gin.Context) { c.String(http.StatusOK, "totals") }).
		GET("/types", func(c *gin.Context) { c.String(http.StatusOK, "types") })

	NewRouter(engine).Register(group).Setup()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"post route", http.MethodPost, "/api/v1/documents/totals", http.StatusOK, "totals"},
		{"get route", http.MethodGet, "/api/v1/documents/types", http.StatusOK, "types"},
		{"unversioned path", http.MethodGet, "/documents/types", http.StatusNotFound, ""},
		{"wrong method", http.MethodGet, "/api/v1/documents/totals", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("documents", "/documents")
		assert.Equal(t, "documents", g.Name())
		assert.Equal(t, "/documents", g.Prefix())
	})

	t.Run("middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		var order []string
		g := NewDomainGroup("documents", "/documents").
			Use(func(c *gin.Context) {
				order = append(order, "mw")
				c.Next()
			}).
			POST("/render", func(c *gin.Context) {
				order = append(order, "handler")
				c.Status(http.StatusNoContent)
			})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPost, "/api/v1/documents/render")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"mw", "handler"}, order)
	})

	t.Run("middleware can abort", func(t *testing.T) {
		engine := gin.New()
		called := false
		g := NewDomainGroup("documents", "/documents").
			Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }).
			POST("/render", func(c *gin.Context) { called = true })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPost, "/api/v1/documents/render")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.False(t, called)
	})

	t.Run("lists routes", func(t *testing.T) {
		noop := func(*gin.Context) {}
		g := NewDomainGroup("documents", "/documents").
			POST("/render", noop).
			Handle(http.MethodGet, "/types", noop)

		assert.Equal(t, []Route{
			{Method: http.MethodPost, Path: "/documents/render"},
			{Method: http.MethodGet, Path: "/documents/types"},
		}, g.Routes())
	})
}
