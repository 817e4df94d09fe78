package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromCtx string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		fromCtx = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDKey)
		assert.Len(t, id, 32)
		assert.Equal(t, id, fromCtx)
	})

	t.Run("keeps the inbound id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDKey, "upstream-42")
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-42", w.Header().Get(RequestIDKey))
		assert.Equal(t, "upstream-42", fromCtx)
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "listed origin", origins: []string{"https://crm.example.com"}, origin: "https://crm.example.com", wantHeader: "https://crm.example.com"},
		{name: "unlisted origin", origins: []string{"https://crm.example.com"}, origin: "https://evil.example.com", wantHeader: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example.com", wantHeader: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(config.HTTPConfig{CORSAllowOrigins: tt.origins}))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Secure())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
