package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/listenupapp/bookrec/internal/http/response"
	"github.com/listenupapp/bookrec/internal/metrics"
	"github.com/listenupapp/bookrec/internal/ratelimit"
)

// RateLimitMiddleware rate limits requests per client IP and answers 429
// when a client exceeds its bucket. Health and metrics probes are exempt.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(key) {
				metrics.APIRateLimitHits.Inc()
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address without the port.
// middleware.RealIP has already folded X-Forwarded-For and X-Real-IP
// into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
