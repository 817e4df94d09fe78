package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-32-bytes!"

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(token string) (auth.Caller, error) {
	args := m.Called(token)
	return args.Get(0).(auth.Caller), args.Error(1)
}

func (m *mockAuthenticator) AdminRole() string {
	return "admin"
}

func newAuthRouter(cfg AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(cfg))
	handlers := append(extra, func(c *gin.Context) {
		caller, _ := GetCaller(c)
		c.JSON(http.StatusOK, gin.H{
			"subject":  caller.Subject,
			"is_admin": caller.IsAdmin,
			"role":     logger.GetRole(c.Request.Context()),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestAuth_ValidToken(t *testing.T) {
	svc := auth.NewJWTService(config.AuthConfig{Secret: testSecret, Issuer: "crm-identity", AdminRole: "admin"})
	token, err := svc.Issue(auth.IssueInput{Subject: "user-7", Roles: []string{"sales"}})
	require.NoError(t, err)

	r := newAuthRouter(AuthConfig{Authenticator: svc})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-7", body["subject"])
	assert.Equal(t, false, body["is_admin"])
	assert.Equal(t, "sales", body["role"])
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		authErr  error
		wantCode string
	}{
		{name: "missing header", header: "", wantCode: dto.ErrCodeUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: dto.ErrCodeUnauthorized},
		{name: "empty token", header: "Bearer   ", wantCode: dto.ErrCodeUnauthorized},
		{name: "invalid token", header: "Bearer bad", authErr: auth.ErrInvalidToken, wantCode: dto.ErrCodeUnauthorized},
		{name: "expired token", header: "Bearer old", authErr: auth.ErrExpiredToken, wantCode: dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := new(mockAuthenticator)
			if tt.authErr != nil {
				authenticator.On("Authenticate", mock.Anything).Return(auth.Caller{}, tt.authErr)
			}

			r := newAuthRouter(AuthConfig{Authenticator: authenticator})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			errInfo := decodeError(t, w)
			assert.Equal(t, tt.wantCode, errInfo.Code)
			assert.NotEmpty(t, errInfo.RequestID)
			authenticator.AssertExpectations(t)
		})
	}
}

func TestAuth_DisabledUsesLocalAdmin(t *testing.T) {
	r := newAuthRouter(AuthConfig{Disabled: true}, RequireAdmin())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "local", body["subject"])
	assert.Equal(t, true, body["is_admin"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		caller     auth.Caller
		wantStatus int
	}{
		{name: "admin passes", caller: auth.Caller{Subject: "a", IsAdmin: true}, wantStatus: http.StatusOK},
		{name: "user forbidden", caller: auth.Caller{Subject: "u", Roles: []string{"sales"}}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := new(mockAuthenticator)
			authenticator.On("Authenticate", "tok").Return(tt.caller, nil)

			r := newAuthRouter(AuthConfig{Authenticator: authenticator}, RequireAdmin())
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "bearer tok")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
