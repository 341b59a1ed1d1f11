package middleware

import (
	"net/http"
	"sync"

	"go-staffing/internal/shared/apperror"
	"go-staffing/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per key (IP or actor id).
type limiterPool struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

func newLimiterPool(r rate.Limit, b int) *limiterPool {
	return &limiterPool{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, ok := p.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(p.r, p.b)
		p.limiters[key] = limiter
	}
	return limiter
}

func tooManyRequests(c *gin.Context) {
	response.Error(c, http.StatusTooManyRequests, apperror.CodeRateLimited,
		"Too many requests, slow down", nil)
	c.Abort()
}

// RateLimitByIP throttles per source IP. r = requests per second, b = burst.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	pool := newLimiterPool(r, b)
	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimitByActor throttles per authenticated actor. Requests without an
// actor id (not yet authenticated) pass through untouched.
func RateLimitByActor(r rate.Limit, b int) gin.HandlerFunc {
	pool := newLimiterPool(r, b)
	return func(c *gin.Context) {
		actorID := c.GetString(KeyActorID)
		if actorID == "" {
			c.Next()
			return
		}
		if !pool.get(actorID).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}
