package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/gigboard/marketplace-core/docs"
	"github.com/gigboard/marketplace-core/internal/infrastructure/http/handlers"
)

const metricsSubsystem = "marketplace_http"

// RegisterOps mounts probes, Prometheus metrics and the API docs on e and
// adds request metrics for every route.
func RegisterOps(e *echo.Echo, db *mongo.Database, rdb *redis.Client) {
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
