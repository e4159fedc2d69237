package rest

import (
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GuildHandler handles guild ("hermandad") REST endpoints.
type GuildHandler struct {
	db   *gorm.DB
	game config.GameConfig
}

// NewGuildHandler creates a new GuildHandler.
func NewGuildHandler(db *gorm.DB, game config.GameConfig) *GuildHandler {
	return &GuildHandler{db: db, game: game}
}

type guildRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=32"`
	Realm     string `json:"realm"      binding:"required,min=2,max=64"`
	FactionID int64  `json:"faction_id" binding:"required"`
}

// Create handles POST /api/guilds (admin).
func (h *GuildHandler) Create(c *gin.Context) {
	var req guildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	var faction model.Faction
	if err := h.db.First(&faction, req.FactionID).Error; err != nil {
		fail(c, http.StatusBadRequest, CodeFactionNotFound, "faction not found")
		return
	}

	guild := &model.Guild{Name: req.Name, Realm: req.Realm, FactionID: req.FactionID}
	if err := h.db.Create(guild).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, http.StatusConflict, CodeValidation, "guild name already taken")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}
	c.JSON(http.StatusCreated, guild)
}

// List handles GET /api/guilds/list.
func (h *GuildHandler) List(c *gin.Context) {
	page, size := pageParams(c, h.game.PageSize)

	var total int64
	if err := h.db.Model(&model.Guild{}).Count(&total).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	var guilds []model.Guild
	if err := h.db.Order("id").Offset(page * size).Limit(size).Find(&guilds).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, Page{Items: guilds, Page: page, Size: size, Total: total})
}

// Detail handles GET /api/guilds/:id.
func (h *GuildHandler) Detail(c *gin.Context) {
	guild, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, guild)
}

// Update handles PUT /api/guilds/:id (admin). The faction is immutable once
// the guild exists; only name and realm change.
func (h *GuildHandler) Update(c *gin.Context) {
	guild, ok := h.load(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"  binding:"required,min=2,max=32"`
		Realm string `json:"realm" binding:"required,min=2,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if err := h.db.Model(guild).Updates(map[string]interface{}{
		"name":  req.Name,
		"realm": req.Realm,
	}).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, http.StatusConflict, CodeValidation, "guild name already taken")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}
	guild.Name = req.Name
	guild.Realm = req.Realm
	c.JSON(http.StatusOK, guild)
}

// Delete handles DELETE /api/guilds/:id (admin). Members are detached, not
// deleted.
func (h *GuildHandler) Delete(c *gin.Context) {
	guild, ok := h.load(c)
	if !ok {
		return
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Player{}).
			Where("guild_id = ?", guild.ID).
			Update("guild_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(guild).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// PlayerCount handles GET /api/guilds/:id/player-count.
func (h *GuildHandler) PlayerCount(c *gin.Context) {
	guild, ok := h.load(c)
	if !ok {
		return
	}
	var count int64
	if err := h.db.Model(&model.Player{}).
		Where("guild_id = ?", guild.ID).
		Count(&count).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"guild_id": guild.ID, "player_count": count})
}

func (h *GuildHandler) load(c *gin.Context) (*model.Guild, bool) {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return nil, false
	}
	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		fail(c, http.StatusNotFound, CodeGuildNotFound, "guild not found")
		return nil, false
	}
	return &guild, true
}
