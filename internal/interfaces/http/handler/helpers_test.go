package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fixedAuthenticator struct {
	caller auth.Caller
}

func (a fixedAuthenticator) Authenticate(string) (auth.Caller, error) { return a.caller, nil }
func (a fixedAuthenticator) AdminRole() string                       { return "admin" }

var (
	adminCaller = auth.Caller{Subject: "admin-1", IsAdmin: true}
	userCaller  = auth.Caller{Subject: "user-1", Roles: []string{"sales"}}
)

// newTestEngine mirrors the production chain: request id, validator, auth as caller
func newTestEngine(caller auth.Caller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth(middleware.AuthConfig{
		Authenticator: fixedAuthenticator{caller: caller},
	}))
	return r
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeEnvelope decodes the envelope and its data into data when non-nil
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) dto.Response {
	t.Helper()

	var raw struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}
