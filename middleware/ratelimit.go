package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

// RateLimit applies a per-client-IP token bucket.
// r is the refill rate in requests per second, b the burst size.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
		lastSeen = make(map[string]time.Time)
		nextGC   = time.Now().Add(limiterIdleTimeout)
	)

	take := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.After(nextGC) {
			for addr, seen := range lastSeen {
				if now.Sub(seen) > limiterIdleTimeout {
					delete(limiters, addr)
					delete(lastSeen, addr)
				}
			}
			nextGC = now.Add(limiterIdleTimeout)
		}

		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(r, b)
			limiters[ip] = lim
		}
		lastSeen[ip] = now
		return lim.Allow()
	}

	return func(c *gin.Context) {
		if !take(c.ClientIP()) {
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}
