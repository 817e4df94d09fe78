package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*settings.AdminSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.AdminSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.AdminSettings) error {
	return m.Called(ctx, s).Error(0)
}

func settingsWithKey(key string) *settings.AdminSettings {
	s := settings.Defaults()
	s.LedgerAPIKey = key
	return s
}

func TestSettingsKeyProvider_APIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("stored key wins over fallback", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(settingsWithKey(" stored-key "), nil).Once()

		p := NewSettingsKeyProvider(repo, "env-key", time.Minute, zap.NewNop())
		key, err := p.APIKey(ctx)

		require.NoError(t, err)
		assert.Equal(t, "stored-key", key)
		repo.AssertExpectations(t)
	})

	t.Run("empty stored key uses fallback", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(settingsWithKey(""), nil).Once()

		key, err := NewSettingsKeyProvider(repo, "env-key", time.Minute, nil).APIKey(ctx)

		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("nil repository uses fallback", func(t *testing.T) {
		key, err := NewSettingsKeyProvider(nil, "env-key", 0, nil).APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("repository error before any key is returned", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(nil, errors.New("db down")).Once()
		repo.On("Get", ctx).Return(settingsWithKey("stored-key"), nil).Once()

		p := NewSettingsKeyProvider(repo, "env-key", time.Minute, nil)

		key, err := p.APIKey(ctx)
		require.Error(t, err)
		assert.Empty(t, key)

		key, err = p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stored-key", key, "failure is not cached")
		repo.AssertExpectations(t)
	})

	t.Run("repository error keeps the last key", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(settingsWithKey("stored-key"), nil).Once()
		repo.On("Get", ctx).Return(nil, errors.New("db down")).Twice()

		p := NewSettingsKeyProvider(repo, "", time.Nanosecond, nil)
		p.now = func() time.Time { return now }

		key, err := p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stored-key", key)

		now = now.Add(time.Second)
		key, err = p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stored-key", key)

		require.NoError(t, p.Refresh(ctx))
		key, err = p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stored-key", key, "refresh keeps the last key for failed lookups")
		repo.AssertExpectations(t)
	})
}

func TestSettingsKeyProvider_Cache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := new(MockSettingsRepository)
	repo.On("Get", ctx).Return(settingsWithKey("first"), nil).Once()
	repo.On("Get", ctx).Return(settingsWithKey("second"), nil).Once()
	repo.On("Get", ctx).Return(settingsWithKey("third"), nil).Once()

	p := NewSettingsKeyProvider(repo, "", time.Minute, nil)
	p.now = func() time.Time { return now }

	key, _ := p.APIKey(ctx)
	assert.Equal(t, "first", key)

	now = now.Add(30 * time.Second)
	key, _ = p.APIKey(ctx)
	assert.Equal(t, "first", key, "served from cache within ttl")

	now = now.Add(31 * time.Second)
	key, _ = p.APIKey(ctx)
	assert.Equal(t, "second", key, "reloaded after ttl")

	require.NoError(t, p.Refresh(ctx))
	key, _ = p.APIKey(ctx)
	assert.Equal(t, "third", key, "reloaded after refresh")

	repo.AssertExpectations(t)
}

func TestStaticKeyProvider(t *testing.T) {
	key, err := StaticKeyProvider("  k  ").APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k", key)
	assert.NoError(t, StaticKeyProvider("").Refresh(context.Background()))
}
