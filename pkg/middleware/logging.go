package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// RequestLogger logs one line per request and records its latency.
// duration may be nil.
func RequestLogger(log *logger.Logger, duration *telemetry.Histogram) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx := c.Request.Context()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.ErrorContext(ctx, "http request", fields...)
		case status >= 400:
			log.WarnContext(ctx, "http request", fields...)
		default:
			log.InfoContext(ctx, "http request", fields...)
		}

		duration.Record(ctx, elapsed.Seconds(),
			telemetry.MethodAttr(c.Request.Method),
			telemetry.RouteAttr(route),
			telemetry.StatusCodeAttr(status),
		)
	}
}

// Recovery turns a panic into a logged 500 envelope
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		abortInternal(c)
	})
}
