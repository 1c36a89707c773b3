package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"lccwatch/faregraph/internal/api"
	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/metrics"
	"lccwatch/faregraph/internal/middleware"
	"lccwatch/faregraph/internal/services"
)

// RegisterRoutes wires the read-only web layer: fare queries and
// graph lookups. The graph itself is only written by the sync job.
func RegisterRoutes(
	sqlxDB *sqlx.DB,
	fareService *services.FareService,
	metricsReg *metrics.MetricsRegistry,
	upSince time.Time,
) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and rate-limit middleware")

	lookups := repositories.NewLookupRepository(sqlxDB)

	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, upSince))
	r.Route("/api", func(r chi.Router) {
		r.Get("/fares", api.FaresHandler(fareService, lookups))
		r.Get("/airports", api.AirportsHandler(lookups))
		r.Get("/airlines", api.AirlinesHandler(lookups))
	})

	return r
}
