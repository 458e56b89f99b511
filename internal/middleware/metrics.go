package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/miniapptrack/attribution/pkg/telemetry"
)

// Metrics records request counts and latency per route and status
func Metrics() gin.HandlerFunc {
	requests, _ := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "http.server.requests",
		Description: "Number of HTTP requests handled",
		Unit:        "{request}",
	})
	latency, _ := telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "http.server.duration",
		Description: "HTTP request duration",
		Unit:        "ms",
	})

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.status", strconv.Itoa(c.Writer.Status())),
		}
		if requests != nil {
			requests.Inc(c.Request.Context(), attrs...)
		}
		if latency != nil {
			latency.Record(c.Request.Context(), float64(time.Since(start).Milliseconds()), attrs...)
		}
	}
}
