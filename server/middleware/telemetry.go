package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/observability"
)

// Telemetry opens a server span per request and records the request metric.
// Unmatched routes are reported as "unmatched" to bound metric cardinality.
func Telemetry() gin.HandlerFunc {
	metrics := observability.MustMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanHTTPRequest,
			trace.WithSpanKind(trace.SpanKindServer))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		span.SetName(fmt.Sprintf("%s %s", c.Request.Method, route))
		span.SetAttributes(
			attribute.String(observability.AttrRoute, route),
			attribute.Int(observability.AttrStatus, status),
		)
		if id, ok := c.Get(string(logger.RequestIDKey)); ok {
			span.SetAttributes(attribute.String(observability.AttrRequestID, fmt.Sprint(id)))
		}

		var err error
		if status >= 500 {
			err = fmt.Errorf("http status %d", status)
		}
		observability.EndSpan(span, err)
		metrics.RecordRequest(ctx, c.Request.Method, route, status, time.Since(start))
	}
}
