package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter implements per-client token bucket rate limiting with automatic
// cleanup of idle limiters.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
}

// NewRateLimiter creates a new rate limiter allowing rps requests per second
// with the given burst size per identifier. Idle limiters are dropped every
// cleanup interval.
func NewRateLimiter(rps float64, burst int, cleanup time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		cleanup:  cleanup,
	}

	go rl.cleanupLoop()

	return rl
}

// allow checks if a request from the given identifier should be allowed.
func (rl *RateLimiter) allow(identifier string) bool {
	rl.mu.Lock()
	limiter, exists := rl.limiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[identifier] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// cleanupLoop periodically removes limiters whose buckets are full, meaning
// the client has been idle long enough to refill completely.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for identifier, limiter := range rl.limiters {
			if limiter.Tokens() == float64(rl.burst) {
				delete(rl.limiters, identifier)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitByIP creates middleware that rate limits requests by client IP.
// The catalog read API is cheap but unauthenticated, so a per-IP ceiling
// keeps one misbehaving consumer from starving the rest.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(rps, burst, 1*time.Minute)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
