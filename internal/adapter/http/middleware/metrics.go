package middleware

import (
	"strconv"
	"time"

	"memtodo/internal/core/telemetry"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		// Label by route template so ids do not explode cardinality.
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
