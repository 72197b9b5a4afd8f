package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-route request counters, latency histograms, and an
// in-flight gauge. Routes are labelled by their registered pattern, not the
// raw URL, so path parameters do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.HTTPActiveRequests.WithLabelValues(method, route).Inc()
		start := time.Now()

		c.Next()

		m.HTTPActiveRequests.WithLabelValues(method, route).Dec()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
