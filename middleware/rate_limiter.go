package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionRateLimiter caps how many reports one submitter may file per
// day, keyed by citizen email when provided and client IP otherwise. A nil
// Redis client disables the limiter entirely.
func SubmissionRateLimiter(client *redis.Client, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "report-limit:" + submitterKey(r)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				http.Error(w, "rate limiter unavailable", http.StatusInternalServerError)
				return
			}

			// TTL starts on the first submission of the window
			if count == 1 {
				if err := client.Expire(r.Context(), key, 24*time.Hour).Err(); err != nil {
					http.Error(w, "rate limiter unavailable", http.StatusInternalServerError)
					return
				}
			}

			if count > int64(limit) {
				retryAfter, _ := client.TTL(r.Context(), key).Result()
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func submitterKey(r *http.Request) string {
	if email := r.Header.Get("X-Citizen-Email"); email != "" {
		return email
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
