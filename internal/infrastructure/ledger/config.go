package ledger

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Lexware Office API
	DefaultBaseURL = "https://api.lexware.io/v1"
	// DefaultTimeout bounds a single ledger call
	DefaultTimeout = 30 * time.Second

	// maxResponseSize is the maximum accepted response body (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// Errors for ledger configuration
var (
	ErrConfigInvalidBaseURL = errors.New("ledger: base URL must be an absolute http(s) URL")
	ErrConfigInvalidTimeout = errors.New("ledger: timeout must be positive")
)

// Config holds the connection settings of the ledger REST API.
// The API key is not part of it; it is resolved per call by an APIKeyProvider.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the production endpoint with the default timeout
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
}

// Validate fills defaults and checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 {
		return ErrConfigInvalidTimeout
	}
	return nil
}
