package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger verifies backing-store connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// LivenessResponse represents the liveness probe response.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness probe response.
type ReadinessResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Liveness handles GET /health/live. Always 200 while the process serves.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{Status: "ok"})
}

// Readiness handles GET /health/ready. Verifies catalog database
// connectivity; 503 when the store is unreachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "unhealthy", "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, ReadinessResponse{Status: "ok", Database: "ok"})
}
