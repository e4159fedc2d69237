package rest

import (
	"github.com/azerothdev/azeroth-api/audit"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/gin-gonic/gin"
)

// recordAudit fills an audit entry from the request context and enqueues it.
func recordAudit(a *audit.Service, c *gin.Context, action string, playerID int64, playerName string, req, resp interface{}) {
	if a == nil {
		return
	}
	var userID *int64
	if id := mw.GetUserID(c); id != 0 {
		userID = &id
	}
	var pid *int64
	if playerID != 0 {
		pid = &playerID
	}
	a.Log(audit.Entry{
		TraceID:    mw.GetTraceID(c),
		UserID:     userID,
		PlayerID:   pid,
		PlayerName: playerName,
		Action:     action,
		Request:    req,
		Response:   resp,
		IP:         c.ClientIP(),
		DurationMs: int(mw.RequestDuration(c).Milliseconds()),
	})
}
