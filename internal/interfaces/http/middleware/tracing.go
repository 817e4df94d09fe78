package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// AdminRole names the role recorded for admin callers
	AdminRole string
}

// Tracing returns the otelgin server span middleware followed by TraceAttributes
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	return []gin.HandlerFunc{
		otelgin.Middleware(cfg.ServiceName),
		TraceAttributes(cfg.AdminRole),
	}
}

// TraceAttributes tags the active server span with the request ID and,
// once Auth has run further down the chain, the caller's subject and role.
// otelgin ends the span after its Next returns, so this must run inside it.
func TraceAttributes(adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if caller, ok := GetCaller(c); ok {
			span.SetAttributes(
				attribute.String("enduser.id", caller.Subject),
				attribute.String("enduser.role", caller.PrimaryRole(adminRole)),
			)
		}
	}
}
