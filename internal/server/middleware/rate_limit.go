package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/eldadfux/isAWSback/internal/constants"
)

// RateLimiter throttles requests per client IP. One token-bucket limiter is
// kept per IP in an expiring cache so idle clients do not accumulate.
type RateLimiter struct {
	limiters          *gocache.Cache
	requestsPerSecond int
	burstSize         int
}

func NewRateLimiter(requestsPerSecond, burstSize int) *RateLimiter {
	return &RateLimiter{
		limiters:          gocache.New(constants.RateLimitCleanupInterval, constants.RateLimitCleanupInterval*2),
		requestsPerSecond: requestsPerSecond,
		burstSize:         burstSize,
	}
}

func (rl *RateLimiter) Allow(identifier string) bool {
	var limiter *rate.Limiter
	if item, found := rl.limiters.Get(identifier); found {
		limiter = item.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rl.requestsPerSecond), rl.burstSize)
		rl.limiters.Set(identifier, limiter, gocache.DefaultExpiration)
	}
	return limiter.Allow()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipRateLimit(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.Allow(clientIP(r)) {
			w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
			w.Header().Set(constants.HeaderXRateLimitLimit, strconv.Itoa(rl.burstSize))
			w.Header().Set(constants.HeaderXRateLimitRemaining, "0")
			w.Header().Set(constants.HeaderRetryAfter, "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "RATE_LIMIT_EXCEEDED",
				"message": "Rate limit exceeded",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get(constants.HeaderXForwardedFor); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get(constants.HeaderXRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func shouldSkipRateLimit(path string) bool {
	switch path {
	case constants.PathHealth, constants.PathReady, constants.PathMetrics:
		return true
	}
	return false
}
