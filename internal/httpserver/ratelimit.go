// internal/httpserver/ratelimit.go
//
// Per-client token bucket limiting for mutating routes.

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// ipLimiter hands out one rate.Limiter per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*limiterEntry
}

func newIPLimiter(rps, burst int) *ipLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = rps
	}
	return &ipLimiter{rps: rate.Limit(rps), burst: burst, clients: make(map[string]*limiterEntry)}
}

func (l *ipLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.clients[key]; ok {
		e.lastAccess = now
		return e.limiter
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.clients[key] = &limiterEntry{limiter: lim, lastAccess: now}
	return lim
}

// prune forgets clients idle since cutoff.
func (l *ipLimiter) prune(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, e := range l.clients {
		if e.lastAccess.Before(cutoff) {
			delete(l.clients, k)
			n++
		}
	}
	return n
}

// middleware rejects requests over the client's budget with 429.
func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.get(ip, time.Now()).Allow() {
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limited")
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"rate_limited"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr (already rewritten by RealIP).
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
