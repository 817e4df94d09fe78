package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// sweepEvery is the number of Allow calls between removals of stale windows
const sweepEvery = 256

// RateLimiter counts requests per key in fixed windows.
// Stale windows are dropped while counting, so no background goroutine is needed.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	calls   int
	now     func() time.Time
}

type window struct {
	start time.Time
	used  int
}

// NewRateLimiter allows limit requests per key in each period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow consumes one request for key. The second value is the time left until
// the key's window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.calls++
	if rl.calls%sweepEvery == 0 {
		for k, w := range rl.windows {
			if now.Sub(w.start) >= rl.period {
				delete(rl.windows, k)
			}
		}
	}

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}
	reset := rl.period - now.Sub(w.start)
	if w.used >= rl.limit {
		return false, reset
	}
	w.used++
	return true, reset
}

// Tracked is the number of keys with an open window
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// RateLimit rejects requests over the limiter's budget with 429.
// Requests are keyed by client IP. A nil limiter disables the check.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ok, reset := limiter.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(reset.Round(time.Second)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests, try again later",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
