package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL = 10 * time.Minute
	maxLimiters    = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address. Clients idle for
// longer than limiterIdleTTL are dropped, and the table never holds more
// than maxLimiters entries.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	idleTTL   time.Duration
	max       int
	now       func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		max:       maxLimiters,
		now:       time.Now,
		clients:   map[string]*clientLimiter{},
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.max {
			l.evict(now)
		}
		c = &clientLimiter{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// evict drops idle clients, then the least recently seen ones until there
// is room for one more.
func (l *RateLimiter) evict(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, key)
		}
	}

	for len(l.clients) >= l.max {
		var oldestKey string
		var oldest time.Time
		for key, c := range l.clients {
			if oldestKey == "" || c.lastSeen.Before(oldest) {
				oldestKey, oldest = key, c.lastSeen
			}
		}
		delete(l.clients, oldestKey)
	}
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Limit answers limited requests with a JSON 429.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return l.LimitWith(http.HandlerFunc(tooManyRequestsJSON))(next)
}

// LimitWith hands limited requests to rejected instead of next.
func (l *RateLimiter) LimitWith(rejected http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientAddr(r)) {
				w.Header().Set("Retry-After", "1")
				rejected.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit allows each client address perSecond requests with the given
// burst. Limited requests get 429.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	return NewRateLimiter(perSecond, burst).Limit
}

func tooManyRequestsJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"Too many requests"}`))
}
