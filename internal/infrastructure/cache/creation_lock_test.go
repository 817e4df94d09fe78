package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInMemoryCreationLock(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		lock := NewInMemoryCreationLock(time.Minute)
		id := uuid.New()

		ok, err := lock.Acquire(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.Acquire(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, lock.Release(ctx, id))
		ok, err = lock.Acquire(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("locks are per quote request", func(t *testing.T) {
		lock := NewInMemoryCreationLock(time.Minute)

		ok1, _ := lock.Acquire(ctx, uuid.New())
		ok2, _ := lock.Acquire(ctx, uuid.New())
		assert.True(t, ok1)
		assert.True(t, ok2)
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		lock := NewInMemoryCreationLock(time.Minute)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		lock.now = func() time.Time { return now }
		id := uuid.New()

		ok, _ := lock.Acquire(ctx, id)
		require.True(t, ok)

		now = now.Add(61 * time.Second)
		ok, _ = lock.Acquire(ctx, id)
		assert.True(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		lock := NewInMemoryCreationLock(0)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		ok, err := lock.Acquire(cancelled, uuid.New())
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
	})

	t.Run("release of an unheld lock is a no-op", func(t *testing.T) {
		assert.NoError(t, NewInMemoryCreationLock(time.Minute).Release(ctx, uuid.New()))
	})

	t.Run("only one concurrent holder", func(t *testing.T) {
		lock := NewInMemoryCreationLock(time.Minute)
		id := uuid.New()
		var winners atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := lock.Acquire(ctx, id); ok {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())
	})
}

func TestNewCreationLock_Fallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("redis not configured", func(t *testing.T) {
		lock, closeFn, err := NewCreationLock(ctx, config.RedisConfig{}, config.LockConfig{TTL: time.Minute}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &InMemoryCreationLock{}, lock)
		assert.NoError(t, closeFn())
	})

	t.Run("redis unreachable", func(t *testing.T) {
		// Port 1 is reserved and refuses connections.
		lock, closeFn, err := NewCreationLock(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1}, config.LockConfig{}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &InMemoryCreationLock{}, lock)
		assert.NoError(t, closeFn())
	})
}

func TestNewRedisCreationLock_Defaults(t *testing.T) {
	lock := NewRedisCreationLock(nil, "", 0)
	assert.Equal(t, DefaultLockKeyPrefix, lock.keyPrefix)
	assert.Equal(t, DefaultLockTTL, lock.ttl)

	id := uuid.MustParse("6f1c2b7e-3c55-4a8e-9d43-2f5b8b1e7a10")
	assert.Equal(t, "crm:offer-create:6f1c2b7e-3c55-4a8e-9d43-2f5b8b1e7a10", lock.key(id))
}
