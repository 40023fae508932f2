package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

const (
	readinessTimeout   = 3 * time.Second
	sequenceCollection = "metadata"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// The service is ready once MongoDB answers, the sequence document has been
// bootstrapped and Redis answers.
type HealthDependenciesHandler struct {
	mongo *mongo.Database
	redis *redis.Client
}

func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{mongo: db, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	checks := map[string]func(context.Context) error{
		"mongodb":   h.checkMongo,
		"sequences": h.checkSequences,
		"redis":     func(ctx context.Context) error { return h.redis.Ping(ctx).Err() },
	}

	deps := make(map[string]dependencyStatus, len(checks))
	healthy := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}

func (h *HealthDependenciesHandler) checkMongo(ctx context.Context) error {
	return h.mongo.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (h *HealthDependenciesHandler) checkSequences(ctx context.Context) error {
	err := h.mongo.Collection(sequenceCollection).FindOne(ctx, bson.M{"_id": domain.SequenceDocumentID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.New("sequence document not bootstrapped")
	}
	return err
}
