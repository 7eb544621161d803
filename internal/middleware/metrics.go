package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/educonnectt/educonnect-api/internal/service"
)

// Metrics records method, route and status for every request. The matched
// route template is used so /students/:id stays one series regardless of
// the concrete ID.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
