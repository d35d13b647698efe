package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key (normally a client IP).
type RateLimiter struct {
	mu       sync.Mutex
	limits   map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	lastScan time.Time
	trusted  []netip.Prefix
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithTrustedProxies lists the peers whose X-Forwarded-For header is believed.
// Requests from any other peer are keyed on their own address.
func WithTrustedProxies(prefixes []netip.Prefix) LimiterOption {
	return func(rl *RateLimiter) {
		rl.trusted = prefixes
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute events per key with the given burst.
func NewRateLimiter(perMinute, burst int, opts ...LimiterOption) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		limits:  make(map[string]*limiterEntry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// getLimiter gets or creates a limiter for the given key and drops idle ones.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastScan) > rl.idleTTL {
		for k, e := range rl.limits {
			if now.Sub(e.lastSeen) > rl.idleTTL {
				delete(rl.limits, k)
			}
		}
		rl.lastScan = now
	}

	e, ok := rl.limits[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limits[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Allow reports whether an event for key may happen now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// AllowRequest reports whether the client behind r may sign in now.
func (rl *RateLimiter) AllowRequest(r *http.Request) bool {
	return rl.Allow(rl.ClientKey(r))
}

// ClientKey returns the address r is throttled on. X-Forwarded-For is only
// read when the peer is a trusted proxy; the hops are then walked from the
// nearest one and the first untrusted address wins.
func (rl *RateLimiter) ClientKey(r *http.Request) string {
	peer := ClientIP(r)
	if !rl.isTrusted(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			return peer
		}
		if !rl.isTrusted(hop) || i == 0 {
			return hop
		}
	}
	return peer
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	if len(rl.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the host part of RemoteAddr. Forwarding headers are ignored.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
