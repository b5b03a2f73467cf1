package router

import (
	"net/http"

	"github.com/evyataryagoni/geoip-leaderboard/internal/handler"
	"github.com/evyataryagoni/geoip-leaderboard/internal/limiter"
	"github.com/evyataryagoni/geoip-leaderboard/internal/logger"
	"github.com/evyataryagoni/geoip-leaderboard/internal/metrics"
	custommiddleware "github.com/evyataryagoni/geoip-leaderboard/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the chi router with all middleware
// and routes.
//
// The public API lives at the root (GET /leaderboard, POST /track); the
// paths are part of the website contract. Rate limiting applies to the
// write endpoint only.
func SetupRouter(lbHandler *handler.LeaderboardHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware; order matters: RequestID first, then logging,
	// then metrics.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.MetricsMiddleware(m))

	readCORS := custommiddleware.CORS("GET, OPTIONS")
	writeCORS := custommiddleware.CORS("POST, OPTIONS")

	r.With(readCORS).Get("/leaderboard", lbHandler.GetLeaderboard)
	r.With(readCORS).Options("/leaderboard", preflightHandler)

	r.With(writeCORS, custommiddleware.RateLimitMiddleware(rateLimiter)).Post("/track", lbHandler.TrackIP)
	r.With(writeCORS).Options("/track", preflightHandler)

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// preflightHandler exists so chi routes OPTIONS requests; the CORS
// middleware answers them before this runs.
func preflightHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// healthCheckHandler returns 200 OK while the process is serving.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
