package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/stacker/internal/api/handlers"
	"github.com/wonny/stacker/pkg/logger"
)

// Optimize calls are CPU-bound; one client gets a small steady budget so a
// single caller cannot queue unbounded solver batches.
const (
	optimizeRatePerSec = 2
	optimizeBurst      = 4
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(optimizeHandler *handlers.OptimizeHandler, slateHandler *handlers.SlateHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(optimizeRatePerSec, optimizeBurst, log))

	// Optimize endpoints
	api.HandleFunc("/optimize", optimizeHandler.Optimize).Methods("POST")
	api.HandleFunc("/optimize/ws", optimizeHandler.OptimizeWS).Methods("GET")

	// Slate endpoints
	api.HandleFunc("/slates", slateHandler.Create).Methods("POST")
	api.HandleFunc("/slates/{id}", slateHandler.Get).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stacker-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies a per-client token bucket keyed by remote host.
func rateLimitMiddleware(perSec rate.Limit, burst int, log *logger.Logger) mux.MiddlewareFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(host string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[host]
		if !ok {
			l = rate.NewLimiter(perSec, burst)
			limiters[host] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiterFor(host).Allow() {
				log.WithFields(map[string]interface{}{
					"remote": host,
					"path":   r.URL.Path,
				}).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
