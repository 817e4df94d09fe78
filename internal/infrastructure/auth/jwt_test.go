package auth

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.AuthConfig{
		Secret:    testSecret,
		Issuer:    "crm-identity",
		AdminRole: "admin",
		Enabled:   true,
	})
}

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_IssueAndAuthenticate(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.Issue(IssueInput{Subject: "user-1", Name: "Jane", Roles: []string{"sales", "Admin"}})
	require.NoError(t, err)

	caller, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", caller.Subject)
	assert.Equal(t, "Jane", caller.Name)
	assert.True(t, caller.IsAdmin)
	assert.Equal(t, "admin", caller.PrimaryRole(svc.AdminRole()))
}

func TestJWTService_NonAdmin(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.Issue(IssueInput{Subject: "user-2", Roles: []string{"partner"}})
	require.NoError(t, err)

	caller, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.False(t, caller.IsAdmin)
	assert.Equal(t, "partner", caller.PrimaryRole("admin"))
	assert.Equal(t, "user", Caller{}.PrimaryRole("admin"))
}

func TestJWTService_RealmAccessRoles(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "kc-user",
			Issuer:    "crm-identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Roles:       []string{"sales"},
		RealmAccess: realmAccess{Roles: []string{"admin", "sales"}},
	}

	caller, err := svc.Authenticate(sign(t, claims, jwt.SigningMethodHS512, []byte(testSecret)))
	require.NoError(t, err)
	assert.True(t, caller.IsAdmin)
	assert.Equal(t, []string{"sales", "admin"}, caller.Roles)
}

func TestJWTService_ValidateErrors(t *testing.T) {
	svc := newTestJWTService()
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "crm-identity",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	notYet := valid
	notYet.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"expired", sign(t, &Claims{RegisteredClaims: expired}, jwt.SigningMethodHS256, []byte(testSecret)), ErrExpiredToken},
		{"not yet valid", sign(t, &Claims{RegisteredClaims: notYet}, jwt.SigningMethodHS256, []byte(testSecret)), ErrTokenNotYetValid},
		{"wrong secret", sign(t, &Claims{RegisteredClaims: valid}, jwt.SigningMethodHS256, []byte("another-secret-key-at-least-32-chars")), ErrInvalidToken},
		{"wrong issuer", sign(t, &Claims{RegisteredClaims: wrongIssuer}, jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidToken},
		{"unsigned", sign(t, &Claims{RegisteredClaims: valid}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType), ErrInvalidToken},
		{"missing subject", sign(t, &Claims{RegisteredClaims: noSubject}, jwt.SigningMethodHS256, []byte(testSecret)), ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_HasRole(t *testing.T) {
	c := &Claims{Roles: []string{"Sales"}, RealmAccess: realmAccess{Roles: []string{"offline_access"}}}

	assert.True(t, c.HasRole("sales"))
	assert.True(t, c.HasRole("offline_access"))
	assert.False(t, c.HasRole("admin"))
}
