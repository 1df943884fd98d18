package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
)

// staleAfter is how long an idle client keeps its limiter before it is pruned.
const staleAfter = 10 * time.Minute

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client token bucket keyed by client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		rl.prune(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = now

	return cl.limiter.Allow()
}

// prune drops stale entries. Called with the lock held, only when a new
// client shows up, so steady-state requests never pay for it.
func (rl *RateLimiter) prune(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > staleAfter {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperr.Payload{
				StatusCode: http.StatusTooManyRequests,
				ErrorText:  http.StatusText(http.StatusTooManyRequests),
				Message:    "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
