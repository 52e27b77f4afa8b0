package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "queendoctor/pkg/errors"
	httputil "queendoctor/pkg/http"
	"queendoctor/pkg/logger"
)

const rateLimitSweepThreshold = 1000

type clientLimiter struct {
	general  *rate.Limiter
	strict   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps two token buckets per client IP: one for ordinary
// traffic and a tighter one for credential issuance paths.
type RateLimiter struct {
	generalRPM  int
	strictRPM   int
	strictPaths []string
	trustProxy  bool
	log         *logger.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter(generalRPM, strictRPM int, strictPaths []string, log *logger.Logger) *RateLimiter {
	if generalRPM <= 0 {
		generalRPM = 120
	}
	if strictRPM <= 0 {
		strictRPM = 20
	}

	return &RateLimiter{
		generalRPM:  generalRPM,
		strictRPM:   strictRPM,
		strictPaths: strictPaths,
		log:         log,
		clients:     make(map[string]*clientLimiter),
	}
}

// TrustProxyHeaders makes the limiter key clients by X-Forwarded-For and
// X-Real-IP. Only enable it when a reverse proxy overwrites those headers;
// otherwise any client can pick its own bucket.
func (rl *RateLimiter) TrustProxyHeaders(trust bool) *RateLimiter {
	rl.trustProxy = trust
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r, rl.trustProxy)
		limiter := rl.limiterFor(clientIP)

		target := limiter.general
		if rl.isStrict(r.URL.Path) {
			target = limiter.strict
		}

		if !target.Allow() {
			rl.log.Ctx(r.Context()).Warn("Rate limit exceeded",
				"client_ip", clientIP,
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", strconv.Itoa(60))
			if err := httputil.WriteError(w, apperrors.RateLimited()); err != nil {
				rl.log.Error("failed to write error response", "handler", "RateLimiter", "operation", "WriteError", "error", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) isStrict(path string) bool {
	return matchesPath(path, rl.strictPaths)
}

func (rl *RateLimiter) limiterFor(clientIP string) *clientLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if limiter, exists := rl.clients[clientIP]; exists {
		limiter.lastSeen = now
		return limiter
	}

	created := &clientLimiter{
		general:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.generalRPM)), rl.generalRPM),
		strict:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.strictRPM)), rl.strictRPM),
		lastSeen: now,
	}
	rl.clients[clientIP] = created
	rl.sweepLocked(now)

	return created
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if len(rl.clients) < rateLimitSweepThreshold {
		return
	}

	cutoff := now.Add(-10 * time.Minute)
	for ip, limiter := range rl.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func extractClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedClientIP(r); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}

	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}

func forwardedClientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}
