package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/audit"
	"github.com/azerothdev/azeroth-api/game/achievement"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProgressHandler advances achievement progress.
type ProgressHandler struct {
	db      *gorm.DB
	tracker *achievement.Tracker
	auditor *audit.Service
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(db *gorm.DB, tracker *achievement.Tracker, auditor *audit.Service) *ProgressHandler {
	return &ProgressHandler{db: db, tracker: tracker, auditor: auditor}
}

// Advance handles PUT /api/progress/:playerID/:achievementID. One call is
// one step; re-advancing a completed achievement returns the unchanged row.
func (h *ProgressHandler) Advance(c *gin.Context) {
	playerID, err1 := strconv.ParseInt(c.Param("playerID"), 10, 64)
	achievementID, err2 := strconv.ParseInt(c.Param("achievementID"), 10, 64)
	if err1 != nil || err2 != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}

	// Ownership check before touching progress.
	var player model.Player
	if err := h.db.First(&player, playerID).Error; err != nil {
		fail(c, http.StatusNotFound, CodePlayerNotFound, "player not found")
		return
	}
	if !mw.IsAdmin(c) && player.UserID != mw.GetUserID(c) {
		fail(c, http.StatusForbidden, CodeForbidden, "not your player")
		return
	}

	prog, updated, err := h.tracker.Advance(c.Request.Context(), playerID, achievementID)
	if err != nil {
		switch {
		case errors.Is(err, achievement.ErrPlayerNotFound):
			fail(c, http.StatusNotFound, CodePlayerNotFound, "player not found")
		case errors.Is(err, achievement.ErrAchievementNotFound):
			fail(c, http.StatusNotFound, CodeAchievementNotFound, "achievement not found")
		case errors.Is(err, achievement.ErrProgressNotFound):
			fail(c, http.StatusNotFound, CodeProgressNotFound, "progress not initialized")
		default:
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}

	if prog.Status == model.StatusCompleted {
		recordAudit(h.auditor, c, "progress.complete", playerID, updated.Name, nil, prog)
	}
	c.JSON(http.StatusOK, gin.H{"progress": prog, "player": updated})
}
