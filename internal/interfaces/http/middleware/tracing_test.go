package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_Disabled(t *testing.T) {
	assert.Empty(t, Tracing(TracingConfig{Enabled: false}))
}

func TestTracing_TagsSpanWithCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	authenticator := new(mockAuthenticator)
	authenticator.On("Authenticate", mock.Anything).Return(auth.Caller{Subject: "user-3", Roles: []string{"sales"}}, nil)

	r := gin.New()
	r.Use(RequestID())
	r.Use(Tracing(TracingConfig{ServiceName: "crm-test", Enabled: true, AdminRole: "admin"})...)
	r.Use(Auth(AuthConfig{Authenticator: authenticator}))
	r.GET("/api/v1/contacts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts/42", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set(RequestIDKey, "req-abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name, "/api/v1/contacts/:id")

	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "req-abc", attrs["request_id"])
	assert.Equal(t, "user-3", attrs["enduser.id"])
	assert.Equal(t, "sales", attrs["enduser.role"])
}
