package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/metrics"
	"github.com/ErlanBelekov/order-tracker/internal/web"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and count per method, route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		route := routeLabel(c)
		method := c.Request.Method

		metrics.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	}
}

// routeLabel keeps the label set bounded. Unmatched paths that still resolve
// to a page (trailing slash) are counted under that page; the rest collapse
// into "not_found".
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	if r := web.Resolve(c.Request.URL.Path); r.Page != web.PageNotFound {
		return r.Path
	}
	return "not_found"
}
