// Package auth validates the bearer tokens issued by the identity provider.
package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
)

// Claims is the token payload. Roles come either from a flat "roles" claim
// or from Keycloak style realm_access.roles.
type Claims struct {
	jwt.RegisteredClaims
	Name        string      `json:"name,omitempty"`
	Email       string      `json:"email,omitempty"`
	Roles       []string    `json:"roles,omitempty"`
	RealmAccess realmAccess `json:"realm_access"`
}

type realmAccess struct {
	Roles []string `json:"roles,omitempty"`
}

// AllRoles returns the union of both role claims
func (c *Claims) AllRoles() []string {
	roles := make([]string, 0, len(c.Roles)+len(c.RealmAccess.Roles))
	for _, r := range slices.Concat(c.Roles, c.RealmAccess.Roles) {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasRole reports whether the token carries role, case-insensitively
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.AllRoles() {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Caller is the authenticated principal of a request
type Caller struct {
	Subject string
	Name    string
	Roles   []string
	IsAdmin bool
}

// PrimaryRole is the role recorded in logs and transition errors
func (c Caller) PrimaryRole(adminRole string) string {
	if c.IsAdmin {
		return adminRole
	}
	if len(c.Roles) > 0 {
		return c.Roles[0]
	}
	return "user"
}

// JWTService validates HMAC-signed tokens
type JWTService struct {
	secret    []byte
	issuer    string
	adminRole string
	leeway    time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		adminRole: cfg.AdminRole,
		leeway:    30 * time.Second,
	}
}

// AdminRole returns the role name that grants admin rights
func (s *JWTService) AdminRole() string {
	return s.adminRole
}

// Validate parses tokenString and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(s.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// Authenticate validates the token and resolves the caller
func (s *JWTService) Authenticate(tokenString string) (Caller, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return Caller{}, err
	}
	return Caller{
		Subject: claims.Subject,
		Name:    claims.Name,
		Roles:   claims.AllRoles(),
		IsAdmin: s.adminRole != "" && claims.HasRole(s.adminRole),
	}, nil
}

// IssueInput describes a token to mint
type IssueInput struct {
	Subject string
	Name    string
	Email   string
	Roles   []string
	TTL     time.Duration
}

// Issue signs a token for local development and tests
func (s *JWTService) Issue(input IssueInput) (string, error) {
	now := time.Now()
	ttl := input.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   input.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:  input.Name,
		Email: input.Email,
		Roles: input.Roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
