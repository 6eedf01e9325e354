package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"inknet/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterStore keeps one token bucket per key (per client IP) and evicts
// buckets idle for longer than staleAfter.
type limiterStore struct {
	mu    sync.Mutex
	seen  map[string]*limiterEntry
	rate  rate.Limit
	burst int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const staleAfter = 10 * time.Minute

func newLimiterStore(r rate.Limit, burst int) *limiterStore {
	s := &limiterStore{
		seen:  make(map[string]*limiterEntry),
		rate:  r,
		burst: burst,
	}
	go s.evictLoop()
	return s
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.seen[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.seen[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (s *limiterStore) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-staleAfter)
		s.mu.Lock()
		for key, entry := range s.seen {
			if entry.lastSeen.Before(cutoff) {
				delete(s.seen, key)
			}
		}
		s.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := net.ParseIP(xff); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HTTPRateLimitMiddleware applies per-IP request rate limiting on the REST
// surface.
func HTTPRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if !cfg.RateLimiting.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	store := newLimiterStore(
		rate.Limit(cfg.RateLimiting.HTTP.RequestsPerSecond),
		cfg.RateLimiting.HTTP.Burst,
	)

	return func(c *gin.Context) {
		if !store.get(clientIP(c.Request)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// WSConnectionLimitMiddleware throttles new WebSocket upgrades per IP. It
// guards the upgrade endpoint only; per-message limits live on the
// connection itself.
func WSConnectionLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if !cfg.RateLimiting.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	cpm := cfg.RateLimiting.WebSocket.ConnectionsPerMinute
	store := newLimiterStore(rate.Every(time.Minute/time.Duration(cpm)), cpm)

	return func(c *gin.Context) {
		if !store.get(clientIP(c.Request)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many connection attempts",
			})
			return
		}
		c.Next()
	}
}
