package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"smartpark-alliance/smartpark/internal/api"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/metrics"
	"smartpark-alliance/smartpark/internal/middleware"

	"gorm.io/gorm"
)

// RegisterRoutes builds the Chi router with all middleware and handlers
func RegisterRoutes(orm *gorm.DB, deps *api.Dependencies, metricsReg *metrics.Registry, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(orm, upSince))

	RegisterAPIRoutes(r, deps)

	return r
}
