package rest

import (
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AchievementHandler handles the achievement catalog ("logros"). Reads are
// open to authenticated users; mutations are admin-only.
type AchievementHandler struct {
	db   *gorm.DB
	game config.GameConfig
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(db *gorm.DB, game config.GameConfig) *AchievementHandler {
	return &AchievementHandler{db: db, game: game}
}

type achievementRequest struct {
	Title        string  `json:"title"         binding:"required,min=2,max=128"`
	Description  string  `json:"description"   binding:"required"`
	RewardPoints float64 `json:"reward_points" binding:"required,gt=0"`
	TargetValue  int     `json:"target_value"  binding:"required,gt=0"`
}

// List handles GET /api/achievements/list.
func (h *AchievementHandler) List(c *gin.Context) {
	page, size := pageParams(c, h.game.PageSize)

	var total int64
	if err := h.db.Model(&model.Achievement{}).Count(&total).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	var achievements []model.Achievement
	if err := h.db.Order("id").Offset(page * size).Limit(size).Find(&achievements).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, Page{Items: achievements, Page: page, Size: size, Total: total})
}

// Detail handles GET /api/achievements/:id.
func (h *AchievementHandler) Detail(c *gin.Context) {
	ach, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ach)
}

// Create handles POST /api/achievements (admin).
func (h *AchievementHandler) Create(c *gin.Context) {
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	ach := &model.Achievement{
		Title:        req.Title,
		Description:  req.Description,
		RewardPoints: req.RewardPoints,
		TargetValue:  req.TargetValue,
	}
	if err := h.db.Create(ach).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusCreated, ach)
}

// Update handles PUT /api/achievements/:id (admin). Existing progress rows
// keep the target they were created with.
func (h *AchievementHandler) Update(c *gin.Context) {
	ach, ok := h.load(c)
	if !ok {
		return
	}
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if err := h.db.Model(ach).Updates(map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"reward_points": req.RewardPoints,
		"target_value":  req.TargetValue,
	}).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	ach.Title = req.Title
	ach.Description = req.Description
	ach.RewardPoints = req.RewardPoints
	ach.TargetValue = req.TargetValue
	c.JSON(http.StatusOK, ach)
}

// Delete handles DELETE /api/achievements/:id (admin). Progress rows for the
// achievement go with it.
func (h *AchievementHandler) Delete(c *gin.Context) {
	ach, ok := h.load(c)
	if !ok {
		return
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", ach.ID).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(ach).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *AchievementHandler) load(c *gin.Context) (*model.Achievement, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return nil, false
	}
	var ach model.Achievement
	if err := h.db.First(&ach, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeAchievementNotFound, "achievement not found")
		return nil, false
	}
	return &ach, true
}
