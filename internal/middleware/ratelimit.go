package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/utils"
)

// RateLimitMiddleware keeps one token bucket per client IP. Idle buckets are
// evicted after an hour so the map does not grow unbounded.
type RateLimitMiddleware struct {
	log      *logger.Logger
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimitMiddleware(log *logger.Logger) *RateLimitMiddleware {
	middlewareLogger := log.With("Middleware", "RateLimitMiddleware")
	rps := utils.GetEnvAsInt("ASSISTANT_RATE_LIMIT_RPS", 2, middlewareLogger)
	burst := utils.GetEnvAsInt("ASSISTANT_RATE_LIMIT_BURST", 5, middlewareLogger)
	m := &RateLimitMiddleware{
		log:      middlewareLogger,
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go m.cleanup()
	return m
}

func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	v, ok := m.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	m.mu.Unlock()
	return v.limiter.Allow()
}

func (m *RateLimitMiddleware) cleanup() {
	for range time.Tick(10 * time.Minute) {
		m.mu.Lock()
		for ip, v := range m.visitors {
			if time.Since(v.lastSeen) > time.Hour {
				delete(m.visitors, ip)
			}
		}
		m.mu.Unlock()
	}
}
