package rest

import (
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/audit"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/azerothdev/azeroth-api/scheduler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves the operator endpoints. The whole group sits behind
// RequireAdmin plus the admin CIDR whitelist.
type AdminHandler struct {
	db      *gorm.DB
	sched   *scheduler.Scheduler
	auditor *audit.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler, auditor *audit.Service) *AdminHandler {
	return &AdminHandler{db: db, sched: sched, auditor: auditor}
}

// Metrics handles GET /api/admin/metrics: row counts for the main tables.
func (h *AdminHandler) Metrics(c *gin.Context) {
	counts := map[string]int64{}
	for name, m := range map[string]interface{}{
		"users":        &model.User{},
		"players":      &model.Player{},
		"guilds":       &model.Guild{},
		"achievements": &model.Achievement{},
		"progress":     &model.Progress{},
		"audit_logs":   &model.AuditLog{},
	} {
		var n int64
		if err := h.db.Model(m).Count(&n).Error; err != nil {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
			return
		}
		counts[name] = n
	}

	var completed int64
	if err := h.db.Model(&model.Progress{}).
		Where("status = ?", model.StatusCompleted).
		Count(&completed).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":             counts,
		"completed_progress": completed,
	})
}

// Scheduler handles GET /api/admin/scheduler: the registered periodic tasks.
func (h *AdminHandler) Scheduler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.Tasks()})
}

// BanUser handles POST /api/admin/users/:id/ban. Disabled users keep their
// data but can no longer log in; live sessions expire on their own.
func (h *AdminHandler) BanUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, CodeUserNotFound, "user not found")
		return
	}
	if err := h.db.Model(&user).Update("enabled", false).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	recordAudit(h.auditor, c, "admin.ban_user", 0, "", gin.H{"user_id": userID}, nil)
	c.JSON(http.StatusOK, gin.H{"message": "banned", "user_id": userID})
}
