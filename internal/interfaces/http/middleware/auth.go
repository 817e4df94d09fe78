package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const callerKey = "crm.caller"

// Authenticator validates a bearer token into a caller
type Authenticator interface {
	Authenticate(token string) (auth.Caller, error)
	AdminRole() string
}

// AuthConfig configures the Auth middleware
type AuthConfig struct {
	Authenticator Authenticator
	// Disabled lets every request through as a local admin
	Disabled bool
	Logger   *zap.Logger
}

// localCaller is used when authentication is switched off
var localCaller = auth.Caller{Subject: "local", Name: "Local Admin", IsAdmin: true}

// Auth validates the Authorization bearer token and stores the caller
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	adminRole := "admin"
	if cfg.Authenticator != nil {
		adminRole = cfg.Authenticator.AdminRole()
	}

	return func(c *gin.Context) {
		if cfg.Disabled || cfg.Authenticator == nil {
			setCaller(c, localCaller, adminRole)
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed bearer token")
			return
		}

		caller, err := cfg.Authenticator.Authenticate(token)
		if err != nil {
			log.Debug("Token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid token")
			return
		}

		setCaller(c, caller, adminRole)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers with 403. It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok || !caller.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden,
				"Administrator role required",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

// GetCaller returns the authenticated caller
func GetCaller(c *gin.Context) (auth.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return auth.Caller{}, false
	}
	caller, ok := v.(auth.Caller)
	return caller, ok
}

// IsAdmin reports whether the caller holds the admin role
func IsAdmin(c *gin.Context) bool {
	caller, ok := GetCaller(c)
	return ok && caller.IsAdmin
}

func setCaller(c *gin.Context, caller auth.Caller, adminRole string) {
	c.Set(callerKey, caller)
	c.Request = c.Request.WithContext(
		logger.WithCaller(c.Request.Context(), caller.Subject, caller.PrimaryRole(adminRole)),
	)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="crm"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}
