package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(limit int64) *gin.Engine {
		r := gin.New()
		r.Use(BodyLimit(limit))
		r.POST("/", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusOK)
		})
		return r
	}

	tests := []struct {
		name       string
		limit      int64
		body       string
		chunked    bool
		wantStatus int
	}{
		{name: "within limit", limit: 10, body: "small", wantStatus: http.StatusOK},
		{name: "content length over limit", limit: 10, body: strings.Repeat("x", 11), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "chunked over limit", limit: 10, body: strings.Repeat("x", 20), chunked: true, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "disabled", limit: 0, body: strings.Repeat("x", 100), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			newRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
