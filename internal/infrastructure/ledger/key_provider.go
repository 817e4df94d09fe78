package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// DefaultKeyCacheTTL is how long a resolved key is reused
const DefaultKeyCacheTTL = 5 * time.Minute

// SettingsKeyProvider resolves the API key from the admin settings and falls
// back to the configured key. The result is cached for ttl; Refresh drops it.
// When the settings cannot be read the last resolved key stays in use.
type SettingsKeyProvider struct {
	repo     settings.Repository
	fallback string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	cached    string
	expiresAt time.Time
	loaded    bool
	lastGood  string
	resolved  bool
}

// NewSettingsKeyProvider creates a key provider. repo may be nil, in which case
// only the fallback key is used.
func NewSettingsKeyProvider(repo settings.Repository, fallback string, ttl time.Duration, logger *zap.Logger) *SettingsKeyProvider {
	if ttl <= 0 {
		ttl = DefaultKeyCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsKeyProvider{
		repo:     repo,
		fallback: strings.TrimSpace(fallback),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// APIKey returns the cached key or resolves it again once the cache expired.
// A settings lookup failure keeps serving the last resolved key without caching
// it. Before any key was resolved the failure is returned.
func (p *SettingsKeyProvider) APIKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded && p.now().Before(p.expiresAt) {
		return p.cached, nil
	}

	key, err := p.resolve(ctx)
	if err != nil {
		if p.resolved {
			p.logger.Warn("Failed to load ledger API key from settings, keeping last key", zap.Error(err))
			return p.lastGood, nil
		}
		return "", fmt.Errorf("load ledger api key: %w", err)
	}
	p.cached = key
	p.expiresAt = p.now().Add(p.ttl)
	p.loaded = true
	p.lastGood = key
	p.resolved = true
	return key, nil
}

// Refresh invalidates the cached key so the next call reads the settings again.
// The last resolved key is kept for lookups that fail.
func (p *SettingsKeyProvider) Refresh(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.cached = ""
	return nil
}

func (p *SettingsKeyProvider) resolve(ctx context.Context) (string, error) {
	if p.repo == nil {
		return p.fallback, nil
	}
	s, err := p.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(s.LedgerAPIKey); key != "" {
		return key, nil
	}
	return p.fallback, nil
}

// StaticKeyProvider always returns the same key
type StaticKeyProvider string

// APIKey returns the key
func (k StaticKeyProvider) APIKey(_ context.Context) (string, error) {
	return strings.TrimSpace(string(k)), nil
}

// Refresh is a no-op
func (StaticKeyProvider) Refresh(_ context.Context) error {
	return nil
}

var (
	_ integration.APIKeyProvider = (*SettingsKeyProvider)(nil)
	_ integration.APIKeyProvider = StaticKeyProvider("")
)
