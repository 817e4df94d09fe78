package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// WebhookSecretHeader carries the shared secret of the lead intake form
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret guards webhook endpoints with a shared secret.
// An empty secret leaves the endpoint open.
func WebhookSecret(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Next()
			return
		}
		provided := []byte(c.GetHeader(WebhookSecretHeader))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized,
				"Invalid webhook secret",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
