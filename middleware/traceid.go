package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request trace ID; callers may supply their own.
const TraceIDHeader = "X-Trace-ID"

const traceIDKey = "trace_id"

// TraceID tags every request with a trace ID. A caller-supplied header
// value is kept, otherwise a fresh UUID is minted. The ID is echoed back
// in the response header and made available via GetTraceID.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(traceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" outside TraceID().
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}
