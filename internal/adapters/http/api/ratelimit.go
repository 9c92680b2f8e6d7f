package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/cfcoach/pkg/metrics"
)

// idleClientTTL is how long an unused client bucket is kept.
const idleClientTTL = 2 * time.Hour

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket. A client may burst up to
// the hourly allowance and then refills evenly across the hour.
type RateLimiter struct {
	mu         sync.Mutex
	perHour    int
	trustProxy bool
	clients    map[string]*clientBucket
	now        func() time.Time
}

// NewRateLimiter returns a limiter allowing perHour requests per client.
// A non-positive perHour disables limiting. Clients are keyed by socket peer
// unless trustProxy is set, in which case forwarding headers win.
func NewRateLimiter(perHour int, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		perHour:    perHour,
		trustProxy: trustProxy,
		clients:    make(map[string]*clientBucket),
		now:        time.Now,
	}
}

// Allow consumes one token for client.
func (l *RateLimiter) Allow(client string) bool {
	if l.perHour <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(l.perHour)), l.perHour),
		}
		l.clients[client] = b
		l.pruneLocked(now)
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *RateLimiter) pruneLocked(now time.Time) {
	for k, b := range l.clients {
		if now.Sub(b.lastSeen) > idleClientTTL {
			delete(l.clients, k)
		}
	}
}

// Limit rejects requests over the allowance with 429. CORS preflights pass.
func (l *RateLimiter) Limit(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions && !l.Allow(ClientIP(r, l.trustProxy)) {
			metrics.RecordRateLimited(endpoint)
			w.Header().Set("Retry-After", "3600")
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited.Error())
			return
		}
		next(w, r)
	}
}

// ClientIP identifies the caller by socket peer. Only with trustProxy are
// the first X-Forwarded-For hop and then X-Real-IP consulted; those headers
// are client-controlled unless a proxy in front rewrites them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
