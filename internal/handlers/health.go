package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listoapp/listo/internal/events"
)

// HealthChecker handles health check requests.
type HealthChecker struct {
	publisher   events.Publisher
	redisClient *redis.Client
}

// NewHealthChecker creates a new health checker. redisClient may be nil when
// rate limiting runs on in-memory counters.
func NewHealthChecker(publisher events.Publisher, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{publisher: publisher, redisClient: redisClient}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. Basic mode only confirms the
// server is up; mode=extended also probes the event broker.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		if err := h.checkEvents(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["events"] = "unhealthy: " + err.Error()
		} else {
			checks["events"] = "healthy"
		}

		if h.redisClient != nil {
			if err := h.checkRedis(r.Context()); err != nil {
				response.Status = "unhealthy"
				checks["redis"] = "unhealthy: " + err.Error()
			} else {
				checks["redis"] = "healthy"
			}
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// checkEvents verifies the event broker connection.
func (h *HealthChecker) checkEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.publisher.HealthCheck(ctx)
}

// checkRedis verifies the rate-limit store connection.
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.redisClient.Ping(ctx).Err()
}
