package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWebhookSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{name: "matching secret", secret: "s3cret", header: "s3cret", wantStatus: http.StatusOK},
		{name: "wrong secret", secret: "s3cret", header: "guess", wantStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "no secret configured", secret: "", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/hook", WebhookSecret(tt.secret), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/hook", nil)
			if tt.header != "" {
				req.Header.Set(WebhookSecretHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
