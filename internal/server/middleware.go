package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// accessLogMiddleware writes one structured log line per request.
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Debug("request")
		}
	}
}

// minLimiterIdle is the shortest time a client's bucket is kept unused.
const minLimiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client IP. Buckets idle for
// longer than idleTTL are evicted; by then they have refilled completely.
type clientLimiters struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	ttl := time.Duration(float64(burst) / rps * float64(time.Second))
	if ttl < minLimiterIdle {
		ttl = minLimiterIdle
	}
	return &clientLimiters{
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  ttl,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

func (cl *clientLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) >= cl.idleTTL {
		cl.evictIdle(now)
		cl.lastSweep = now
	}

	l, ok := cl.limiters[key]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter
}

// evictIdle must be called with cl.mu held.
func (cl *clientLimiters) evictIdle(now time.Time) {
	for key, l := range cl.limiters {
		if now.Sub(l.lastSeen) >= cl.idleTTL {
			delete(cl.limiters, key)
		}
	}
}

func (cl *clientLimiters) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.limiters)
}

// rateLimitMiddleware throttles selection requests per client. A non-positive
// rps disables limiting.
func rateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	cl := newClientLimiters(rps, burst)
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
