package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rashadism/choreosync/models"
)

// RunStatusSource exposes the latest reconciliation run result.
type RunStatusSource interface {
	Last() (models.RunResult, bool)
}

// StatusHandler serves the reconciliation run status endpoint.
type StatusHandler struct {
	tracker RunStatusSource
}

// NewStatusHandler creates a new run status handler.
func NewStatusHandler(tracker RunStatusSource) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

// StatusResponse represents the reconciliation status of this instance.
type StatusResponse struct {
	// Synced is true once at least one run has completed.
	Synced bool `json:"synced"`

	// LastRun is the most recent run's summary, absent before the first run.
	LastRun *models.RunResult `json:"lastRun,omitempty"`
}

// Status handles GET /api/v1/status.
func (h *StatusHandler) Status(c *gin.Context) {
	last, ok := h.tracker.Last()
	if !ok {
		c.JSON(http.StatusOK, StatusResponse{Synced: false})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Synced: true, LastRun: &last})
}
