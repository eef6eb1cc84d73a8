package middleware

import (
	"expvar"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	httpRequests = expvar.NewMap("http_requests")
	httpLatency  = expvar.NewMap("http_latency_ms")
)

// Metrics counts requests by status code and accumulates latency per route
// into expvar maps served at /api/debug/vars.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		httpRequests.Add(strconv.Itoa(c.Writer.Status()), 1)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpLatency.Add(c.Request.Method+" "+route, time.Since(start).Milliseconds())
	}
}
