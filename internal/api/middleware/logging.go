// Package middleware provides HTTP middleware for the choreosync ops API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/logging"
)

// RequestLogger creates a middleware that logs all HTTP requests using
// structured logging. Each request gets a unique request ID and a
// request-scoped logger stored in the request context, where handlers
// retrieve it with logging.FromContext.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		start := time.Now()

		requestLogger := logger.With(
			zap.String(logging.FieldRequestID, requestID),
			zap.String(logging.FieldMethod, c.Request.Method),
			zap.String(logging.FieldPath, c.Request.URL.Path),
			zap.String(logging.FieldRemoteAddr, c.ClientIP()),
			zap.String(logging.FieldUserAgent, c.Request.UserAgent()),
		)

		// Error responses echo the request id back to the client.
		c.Set("request_id", requestID)

		ctx := logging.WithLogger(c.Request.Context(), requestLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int(logging.FieldStatusCode, status),
			zap.Duration("duration", duration),
			zap.Int64(logging.FieldDuration, duration.Milliseconds()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String(logging.FieldError, c.Errors.String()))
		}

		switch {
		case status >= 500:
			requestLogger.Error("request completed with server error", fields...)
		case status >= 400:
			requestLogger.Warn("request completed with client error", fields...)
		default:
			requestLogger.Info("request completed", fields...)
		}
	}
}
