package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCreationLock is a process-local creation lock with expiry.
// It does not coordinate across instances.
type InMemoryCreationLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewInMemoryCreationLock creates a process-local lock
func NewInMemoryCreationLock(ttl time.Duration) *InMemoryCreationLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &InMemoryCreationLock{
		held: make(map[uuid.UUID]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Acquire takes the lock unless it is held and not yet expired
func (l *InMemoryCreationLock) Acquire(ctx context.Context, quoteRequestID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, ok := l.held[quoteRequestID]; ok && now.Before(expiresAt) {
		return false, nil
	}
	l.held[quoteRequestID] = now.Add(l.ttl)
	return true, nil
}

// Release frees the lock
func (l *InMemoryCreationLock) Release(_ context.Context, quoteRequestID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, quoteRequestID)
	return nil
}
