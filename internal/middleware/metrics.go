package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-api/pkg/metrics"
)

// Metrics records request counts and latency labelled by route template, so
// /api/patients/:id is one series regardless of the id.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
