package rest

import (
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler serves the static game catalog: factions, races, classes
// and expansions. Reads are open to any authenticated user; race mutations
// are admin-only and wired behind the admin group.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListFactions handles GET /api/factions/list.
func (h *CatalogHandler) ListFactions(c *gin.Context) {
	var factions []model.Faction
	if err := h.db.Order("id").Find(&factions).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"factions": factions})
}

// FactionDetail handles GET /api/factions/:id.
func (h *CatalogHandler) FactionDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var faction model.Faction
	if err := h.db.First(&faction, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeFactionNotFound, "faction not found")
		return
	}
	var races []model.Race
	h.db.Where("faction_id = ?", id).Order("id").Find(&races)
	c.JSON(http.StatusOK, gin.H{"faction": faction, "races": races})
}

// ListRaces handles GET /api/races/list.
func (h *CatalogHandler) ListRaces(c *gin.Context) {
	var races []model.Race
	if err := h.db.Preload("Classes").Order("id").Find(&races).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"races": races})
}

// RaceDetail handles GET /api/races/:id.
func (h *CatalogHandler) RaceDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var race model.Race
	if err := h.db.Preload("Classes").First(&race, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeRaceNotFound, "race not found")
		return
	}
	c.JSON(http.StatusOK, race)
}

type raceRequest struct {
	Name      string  `json:"name"       binding:"required,min=2,max=32"`
	FactionID int64   `json:"faction_id" binding:"required"`
	ClassIDs  []int64 `json:"class_ids"  binding:"required,min=1"`
}

// CreateRace handles POST /api/races (admin).
func (h *CatalogHandler) CreateRace(c *gin.Context) {
	var req raceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	classes, ok := h.resolveClasses(c, req.ClassIDs)
	if !ok {
		return
	}
	var faction model.Faction
	if err := h.db.First(&faction, req.FactionID).Error; err != nil {
		fail(c, http.StatusBadRequest, CodeFactionNotFound, "faction not found")
		return
	}

	race := &model.Race{Name: req.Name, FactionID: req.FactionID, Classes: classes}
	if err := h.db.Create(race).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusCreated, race)
}

// UpdateRace handles PUT /api/races/:id (admin). Replaces the playable
// class set wholesale.
func (h *CatalogHandler) UpdateRace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var race model.Race
	if err := h.db.First(&race, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeRaceNotFound, "race not found")
		return
	}
	var req raceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	classes, ok := h.resolveClasses(c, req.ClassIDs)
	if !ok {
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&race).Updates(map[string]interface{}{
			"name":       req.Name,
			"faction_id": req.FactionID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&race).Association("Classes").Replace(classes)
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	race.Name = req.Name
	race.FactionID = req.FactionID
	race.Classes = classes
	c.JSON(http.StatusOK, race)
}

// DeleteRace handles DELETE /api/races/:id (admin). A race with existing
// players cannot be removed.
func (h *CatalogHandler) DeleteRace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var race model.Race
	if err := h.db.First(&race, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeRaceNotFound, "race not found")
		return
	}
	var players int64
	h.db.Model(&model.Player{}).Where("race_id = ?", id).Count(&players)
	if players > 0 {
		fail(c, http.StatusConflict, CodeValidation, "race still has players")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&race).Association("Classes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&race).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListClasses handles GET /api/classes/list.
func (h *CatalogHandler) ListClasses(c *gin.Context) {
	var classes []model.Class
	if err := h.db.Order("id").Find(&classes).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

// ClassDetail handles GET /api/classes/:id.
func (h *CatalogHandler) ClassDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return
	}
	var class model.Class
	if err := h.db.First(&class, id).Error; err != nil {
		fail(c, http.StatusNotFound, CodeClassNotFound, "class not found")
		return
	}
	c.JSON(http.StatusOK, class)
}

// ListExpansions handles GET /api/expansions/list.
func (h *CatalogHandler) ListExpansions(c *gin.Context) {
	var expansions []model.Expansion
	if err := h.db.Order("id").Find(&expansions).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"expansions": expansions})
}

func (h *CatalogHandler) resolveClasses(c *gin.Context, ids []int64) ([]model.Class, bool) {
	var classes []model.Class
	if err := h.db.Where("id IN ?", ids).Find(&classes).Error; err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return nil, false
	}
	if len(classes) != len(ids) {
		fail(c, http.StatusBadRequest, CodeClassNotFound, "unknown class id")
		return nil, false
	}
	return classes, true
}
