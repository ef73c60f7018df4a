package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rashadism/choreosync/internal/metrics"
)

// MetricsMiddleware creates a middleware that collects Prometheus metrics for
// HTTP requests: request count by method/path/status, duration, response
// size, and in-flight requests. Add it early in the chain so every request is
// counted.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path // Fallback for unmatched routes
		}
		status := strconv.Itoa(c.Writer.Status())
		responseSize := float64(c.Writer.Size())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
		if responseSize >= 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(responseSize)
		}
	}
}
