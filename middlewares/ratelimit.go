package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTTL is how long an idle client's limiter is kept.
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterData holds one limiter per client IP
type rateLimiterData struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	config  RateLimiterConfig
	lastGC  time.Time
}

func (d *rateLimiterData) allow(ip string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastGC) > d.config.IdleTTL {
		for key, cl := range d.clients {
			if now.Sub(cl.lastSeen) > d.config.IdleTTL {
				delete(d.clients, key)
			}
		}
		d.lastGC = now
	}

	cl, ok := d.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(d.config.RequestsPerSecond), d.config.Burst)}
		d.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware limits requests per client IP.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	data := &rateLimiterData{
		clients: make(map[string]*clientLimiter),
		config:  config,
		lastGC:  time.Now(),
	}

	return func(c *gin.Context) {
		if !data.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
