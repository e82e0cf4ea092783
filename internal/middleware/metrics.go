package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chemo-dose-safety-server/internal/metrics"
)

// Metrics records Prometheus metrics for every request. The route template
// (not the raw URL) is used as the path label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestInFlight.Inc()

		c.Next()

		metrics.HTTPRequestInFlight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestTotals.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
