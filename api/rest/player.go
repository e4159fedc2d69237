package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/audit"
	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/game/achievement"
	"github.com/azerothdev/azeroth-api/game/progression"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerHandler handles player REST endpoints.
type PlayerHandler struct {
	db      *gorm.DB
	tracker *achievement.Tracker
	auditor *audit.Service
	game    config.GameConfig
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(db *gorm.DB, tracker *achievement.Tracker, auditor *audit.Service, game config.GameConfig) *PlayerHandler {
	return &PlayerHandler{db: db, tracker: tracker, auditor: auditor, game: game}
}

type createPlayerRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=32"`
	FactionID int64  `json:"faction_id" binding:"required"`
	RaceID    int64  `json:"race_id"    binding:"required"`
	ClassID   int64  `json:"class_id"   binding:"required"`
}

// Create handles POST /api/players. The race must belong to the chosen
// faction and the class must be playable by the chosen race.
func (h *PlayerHandler) Create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	var race model.Race
	if err := h.db.Preload("Classes").First(&race, req.RaceID).Error; err != nil {
		fail(c, http.StatusBadRequest, CodeRaceNotFound, "race not found")
		return
	}
	if race.FactionID != req.FactionID {
		fail(c, http.StatusBadRequest, CodeRaceNotInFaction, "race does not belong to the chosen faction")
		return
	}
	classOK := false
	for _, cls := range race.Classes {
		if cls.ID == req.ClassID {
			classOK = true
			break
		}
	}
	if !classOK {
		fail(c, http.StatusBadRequest, CodeClassNotInRace, "class not available for the chosen race")
		return
	}

	player := &model.Player{
		Name:       req.Name,
		Level:      1,
		Experience: 0,
		UserID:     mw.GetUserID(c),
		FactionID:  req.FactionID,
		RaceID:     req.RaceID,
		ClassID:    req.ClassID,
	}
	if err := h.db.Create(player).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, http.StatusConflict, CodePlayerNameTaken, "player name already taken")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}

	recordAudit(h.auditor, c, "player.create", player.ID, player.Name, req, player)
	c.JSON(http.StatusCreated, player)
}

// List handles GET /api/players/list. Admins see every player; regular users
// only their own.
func (h *PlayerHandler) List(c *gin.Context) {
	page, size := pageParams(c, h.game.PageSize)

	q := h.db.Model(&model.Player{})
	if !mw.IsAdmin(c) {
		q = q.Where("user_id = ?", mw.GetUserID(c))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	var players []model.Player
	if err := q.Order("id").Offset(page * size).Limit(size).Find(&players).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, Page{Items: players, Page: page, Size: size, Total: total})
}

// Detail handles GET /api/players/:id.
func (h *PlayerHandler) Detail(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, player)
}

type updatePlayerRequest struct {
	Name string `json:"name" binding:"required,min=2,max=32"`
}

// Update handles PUT /api/players/:id. Only the name is mutable; level and
// experience move exclusively through experience grants.
func (h *PlayerHandler) Update(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req updatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if err := h.db.Model(player).Update("name", req.Name).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, http.StatusConflict, CodePlayerNameTaken, "player name already taken")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}
	player.Name = req.Name
	c.JSON(http.StatusOK, player)
}

// Delete handles DELETE /api/players/:id. Progress rows go with the player.
func (h *PlayerHandler) Delete(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", player.ID).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(player).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	recordAudit(h.auditor, c, "player.delete", player.ID, player.Name, nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type assignGuildRequest struct {
	GuildID int64 `json:"guild_id" binding:"required"`
}

// AssignGuild handles PUT /api/players/:id/guild. The guild must share the
// player's faction.
func (h *PlayerHandler) AssignGuild(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req assignGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, req.GuildID).Error; err != nil {
		fail(c, http.StatusNotFound, CodeGuildNotFound, "guild not found")
		return
	}
	if guild.FactionID != player.FactionID {
		fail(c, http.StatusBadRequest, CodeGuildFactionMismatch, "guild belongs to the opposing faction")
		return
	}

	if err := h.db.Model(player).Update("guild_id", guild.ID).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	player.GuildID = &guild.ID
	c.JSON(http.StatusOK, player)
}

// RemoveGuild handles DELETE /api/players/:id/guild. Removing a player with
// no guild is a no-op.
func (h *PlayerHandler) RemoveGuild(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.db.Model(player).Update("guild_id", nil).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	player.GuildID = nil
	c.JSON(http.StatusOK, player)
}

type grantExperienceRequest struct {
	Amount float64 `json:"amount"`
}

// GrantExperience handles PUT /api/players/:id/experience. The player row is
// re-read under a FOR UPDATE lock inside the transaction so concurrent grants
// (or a grant racing an achievement reward) serialize instead of overwriting
// each other's level and experience.
func (h *PlayerHandler) GrantExperience(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req grantExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var locked model.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, player.ID).Error; err != nil {
			return err
		}
		if err := progression.GrantExperience(&locked, req.Amount); err != nil {
			return err
		}
		if err := tx.Model(&locked).Updates(map[string]interface{}{
			"level":      locked.Level,
			"experience": locked.Experience,
		}).Error; err != nil {
			return err
		}
		*player = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, progression.ErrNegativeAmount) {
			fail(c, http.StatusBadRequest, CodeNegativeExperience, "experience amount must be non-negative")
		} else {
			fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}

	recordAudit(h.auditor, c, "player.grant_exp", player.ID, player.Name, req, gin.H{
		"level": player.Level, "experience": player.Experience,
	})
	c.JSON(http.StatusOK, player)
}

// InitAchievements handles PUT /api/players/:id/achievements/init.
func (h *PlayerHandler) InitAchievements(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	created, err := h.tracker.InitializeProgress(c.Request.Context(), player.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"initialized": len(created)})
}

// ListAchievements handles GET /api/players/:id/achievements.
func (h *PlayerHandler) ListAchievements(c *gin.Context) {
	player, ok := h.loadOwned(c)
	if !ok {
		return
	}
	rows, err := h.tracker.ListForPlayer(c.Request.Context(), player.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": rows})
}

// loadOwned fetches the player from the :id param and enforces ownership:
// admins may touch any player, users only their own. On failure it writes
// the error response and returns ok=false.
func (h *PlayerHandler) loadOwned(c *gin.Context) (*model.Player, bool) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return nil, false
	}
	var player model.Player
	if err := h.db.First(&player, playerID).Error; err != nil {
		fail(c, http.StatusNotFound, CodePlayerNotFound, "player not found")
		return nil, false
	}
	if !mw.IsAdmin(c) && player.UserID != mw.GetUserID(c) {
		fail(c, http.StatusForbidden, CodeForbidden, "not your player")
		return nil, false
	}
	return &player, true
}
