package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	limiterExpiry   = 10 * time.Minute
	cleanupInterval = time.Minute
)

var timeNow = time.Now

type visitor struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter is a token bucket per client IP.
type Limiter struct {
	rate  rate.Limit
	burst int

	mu          sync.Mutex
	visitors    map[string]*visitor
	lastCleanup time.Time
}

func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		rate:        rate.Limit(rps),
		burst:       burst,
		visitors:    make(map[string]*visitor),
		lastCleanup: timeNow(),
	}
}

// Allow reports whether a request from ip may proceed now.
func (l *Limiter) Allow(ip string) bool {
	now := timeNow()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > cleanupInterval {
		for key, v := range l.visitors {
			if now.Sub(v.lastAccess) > limiterExpiry {
				delete(l.visitors, key)
			}
		}
		l.lastCleanup = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastAccess = now

	return v.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware rejects over-limit clients with 429.
func (l *Limiter) Middleware(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ip := clientIP(r)
	if !l.Allow(ip) {
		log.Debug().Str("ip", ip).Str("request_id", RequestID(r.Context())).Msg("Rate limit exceeded")

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"detail": "too many requests"})
		return
	}
	next.ServeHTTP(w, r)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
