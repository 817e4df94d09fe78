package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.Setup())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-Versioned", "yes")
		c.Next()
	}))

	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	mounted := r.Register(group).Setup()
	assert.Equal(t, []RouteInfo{{Domain: "test", Method: http.MethodGet, Path: "/api/v1/test/ping"}}, mounted)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Versioned"))
}

func TestDomainGroup_MethodsAndMiddleware(t *testing.T) {
	engine := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	var blocked bool
	deny := func(c *gin.Context) {
		blocked = true
		c.AbortWithStatus(http.StatusForbidden)
	}

	group := NewDomainGroup("offers", "/offers").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id/status", ok).
		DELETE("/:id", ok).
		POST("/sync", deny, ok)

	assert.Equal(t, "offers", group.Name())
	assert.Equal(t, "/offers", group.Prefix())

	mounted := NewRouter(engine).Register(group).Setup()
	require.Len(t, mounted, 6)
	assert.Equal(t, "/api/v1/offers", mounted[0].Path)
	assert.Equal(t, "/api/v1/offers/:id/status", mounted[3].Path)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/offers", http.StatusOK},
		{http.MethodPost, "/api/v1/offers", http.StatusOK},
		{http.MethodPut, "/api/v1/offers/1", http.StatusOK},
		{http.MethodPatch, "/api/v1/offers/1/status", http.StatusOK},
		{http.MethodDelete, "/api/v1/offers/1", http.StatusOK},
		{http.MethodPost, "/api/v1/offers/sync", http.StatusForbidden},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
	assert.True(t, blocked)
}

func TestDomainGroup_UseScopesMiddleware(t *testing.T) {
	engine := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	guarded := NewDomainGroup("webhooks", "/webhooks").
		Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }).
		POST("/leads", ok)
	open := NewDomainGroup("public", "/public").GET("/legal-links", ok)

	NewRouter(engine).Register(guarded).Register(open).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/legal-links", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
