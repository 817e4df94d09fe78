package cache

import (
	"context"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreationLock serialises offer creation per quote request
type CreationLock interface {
	Acquire(ctx context.Context, quoteRequestID uuid.UUID) (bool, error)
	Release(ctx context.Context, quoteRequestID uuid.UUID) error
}

// NewCreationLock builds the Redis lock when Redis is configured and reachable,
// and the in-memory lock otherwise. The returned close function releases the
// Redis connection.
func NewCreationLock(ctx context.Context, redisCfg config.RedisConfig, lockCfg config.LockConfig, logger *zap.Logger) (CreationLock, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }
	ttl := lockCfg.TTL
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	if !redisCfg.Enabled() {
		logger.Info("Redis not configured, using in-memory offer creation lock")
		return NewInMemoryCreationLock(ttl), noop, nil
	}

	client, err := NewRedisClient(ctx, RedisConfig{
		Host:     redisCfg.Host,
		Port:     redisCfg.Port,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory offer creation lock. "+
			"Concurrent instances may create duplicate ledger quotations.",
			zap.String("addr", redisCfg.Addr()),
			zap.Error(err))
		return NewInMemoryCreationLock(ttl), noop, nil
	}

	logger.Info("Using Redis offer creation lock",
		zap.String("addr", redisCfg.Addr()),
		zap.Duration("ttl", ttl))
	return NewRedisCreationLock(client, lockCfg.KeyPrefix, ttl), client.Close, nil
}
