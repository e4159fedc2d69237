package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestStartKey = "request_start"

// RequestDuration returns how long the request has been running, or 0
// outside the Logger middleware.
func RequestDuration(c *gin.Context) time.Duration {
	if v, ok := c.Get(requestStartKey); ok {
		if start, ok := v.(time.Time); ok {
			return time.Since(start)
		}
	}
	return 0
}

// Logger logs one line per request. Server errors log at error level so
// they stand out in production output.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(requestStartKey, start)
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("trace_id", GetTraceID(c)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := GetUserID(c); uid != 0 {
			fields = append(fields, zap.Int64("user_id", uid))
		}

		if status >= 500 {
			log.Error("http", fields...)
		} else {
			log.Info("http", fields...)
		}
	}
}
