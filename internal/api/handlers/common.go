// Package handlers provides HTTP handlers for the choreosync ops API:
// health checks, catalog entity reads, and reconciliation run status.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	// Error is the error code (e.g., "not_found").
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// RequestID is the unique request ID for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// respondError sends a standardized error response.
func respondError(c *gin.Context, statusCode int, errorCode string, message string) {
	requestID := ""
	if val, exists := c.Get("request_id"); exists {
		if id, ok := val.(string); ok {
			requestID = id
		}
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	})
}
