package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ErrorCode string    `json:"errorCode"`
	Path      string    `json:"path"`
}

// abort stops the request with the same error envelope the handlers use.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		ErrorCode: code,
		Path:      c.Request.URL.Path,
	})
}
