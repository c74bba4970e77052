package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/models"
	"golang.org/x/time/rate"
)

const (
	idleBucketTTL = time.Hour
	sweepInterval = 5 * time.Minute
)

// RateLimit gives every caller its own token bucket. Callers are keyed by
// the API key Auth accepted, or by client IP when auth is off. A
// non-positive rate turns limiting off.
//
// Idle buckets are dropped while serving requests, so the middleware
// owns no goroutine and needs no shutdown.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	buckets := newBucketSet(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1), time.Now)

	return func(c *gin.Context) {
		if !buckets.allow(callerIdentity(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "rate limit exceeded, please slow down",
				Code:  models.ErrCodeRateLimited,
			})
			return
		}
		c.Next()
	}
}

func callerIdentity(c *gin.Context) string {
	if key := c.GetString(callerKey); key != "" {
		return "key:" + key
	}
	return "ip:" + c.ClientIP()
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type bucketSet struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	now       func() time.Time
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newBucketSet(limit rate.Limit, burst int, now func() time.Time) *bucketSet {
	return &bucketSet{
		limit:     limit,
		burst:     burst,
		now:       now,
		buckets:   make(map[string]*bucket),
		lastSweep: now(),
	}
}

func (s *bucketSet) allow(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}
	b, ok := s.buckets[id]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[id] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep must be called with s.mu held.
func (s *bucketSet) sweep(now time.Time) {
	for id, b := range s.buckets {
		if now.Sub(b.lastSeen) > idleBucketTTL {
			delete(s.buckets, id)
		}
	}
	s.lastSweep = now
}

func (s *bucketSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
