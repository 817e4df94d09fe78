package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the API response wrapper with a typed payload
type Envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// APIClient sends requests straight into an http.Handler
type APIClient struct {
	Handler http.Handler
	// Token is sent as a bearer token when set
	Token string
	// Headers are added to every request
	Headers map[string]string
}

// NewAPIClient wraps handler
func NewAPIClient(handler http.Handler) *APIClient {
	return &APIClient{Handler: handler, Headers: map[string]string{}}
}

// Do sends one request. body is JSON encoded unless it is nil.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses a response envelope
func DecodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()

	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// RequireData asserts status and success and returns the payload
func RequireData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())
	env := DecodeEnvelope[T](t, w)
	require.True(t, env.Success, "Expected success, body: %s", w.Body.String())
	return env.Data
}

// AssertErrorCode asserts status and the envelope error code
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())
	env := DecodeEnvelope[json.RawMessage](t, w)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error, "Expected error object in response") {
		assert.Equal(t, code, env.Error.Code)
	}
}
