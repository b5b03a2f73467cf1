package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/evyataryagoni/geoip-leaderboard/internal/limiter"
	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
)

// RateLimitMiddleware enforces rate limiting per client IP (returns 429
// when exceeded). Mounted on the write endpoint only; leaderboard reads
// are cheap cache hits and stay unthrottled.
func RateLimitMiddleware(lim limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr

			// Prefer proxy-forwarded client IPs.
			// Priority: X-Real-IP > X-Forwarded-For > RemoteAddr
			if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
				ip = realIP
			} else if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
				ip = forwardedFor
			}

			if !lim.Allow(ip) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: "Rate limit exceeded. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
