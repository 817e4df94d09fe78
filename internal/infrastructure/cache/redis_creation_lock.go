package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultLockTTL bounds how long a crashed holder can block a quote request
const DefaultLockTTL = 2 * time.Minute

// DefaultLockKeyPrefix namespaces the lock keys
const DefaultLockKeyPrefix = "crm:offer-create:"

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCreationLock implements the offer creation lock with SET NX PX.
// Each acquisition stores a random token, so an expired lock taken over by
// another instance is never released by the former holder.
type RedisCreationLock struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration

	mu     sync.Mutex
	tokens map[uuid.UUID]string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisCreationLock creates a lock on an existing client
func NewRedisCreationLock(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCreationLock {
	if keyPrefix == "" {
		keyPrefix = DefaultLockKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisCreationLock{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		tokens:    make(map[uuid.UUID]string),
	}
}

// Acquire takes the lock for a quote request. It returns false while another
// holder has it.
func (l *RedisCreationLock) Acquire(ctx context.Context, quoteRequestID uuid.UUID) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(quoteRequestID), token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire creation lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[quoteRequestID] = token
	l.mu.Unlock()
	return true, nil
}

// Release frees a lock held by this instance. Releasing a lock that is not
// held here, or that already expired, is a no-op.
func (l *RedisCreationLock) Release(ctx context.Context, quoteRequestID uuid.UUID) error {
	l.mu.Lock()
	token, ok := l.tokens[quoteRequestID]
	delete(l.tokens, quoteRequestID)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{l.key(quoteRequestID)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release creation lock: %w", err)
	}
	return nil
}

func (l *RedisCreationLock) key(id uuid.UUID) string {
	return l.keyPrefix + id.String()
}
