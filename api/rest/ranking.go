package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/azerothdev/azeroth-api/cache"
	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rankingZKey = "ranking:exp"

// RankingHandler handles leaderboard REST endpoints.
type RankingHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	game   config.GameConfig
	logger *zap.Logger
}

// NewRankingHandler creates a RankingHandler.
func NewRankingHandler(db *gorm.DB, c cache.Cache, game config.GameConfig, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{db: db, cache: c, game: game, logger: logger}
}

// RankEntry is one row in the leaderboard.
type RankEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
}

// TopExp returns the top players sorted by experience.
// GET /api/ranking/exp?limit=20
func (h *RankingHandler) TopExp(c *gin.Context) {
	limit := 20
	if h.game.RankingTop > 0 && h.game.RankingTop < limit {
		limit = h.game.RankingTop
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= h.game.RankingTop {
		limit = l
	}

	// Try the cached sorted set first.
	ctx := c.Request.Context()
	members, err := h.cache.ZRevRange(ctx, rankingZKey, 0, int64(limit-1))
	if err == nil && len(members) > 0 {
		entries := make([]RankEntry, 0, len(members))
		for i, m := range members {
			playerID, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				continue
			}
			score, _ := h.cache.ZScore(ctx, rankingZKey, m)
			entries = append(entries, RankEntry{
				Rank:       i + 1,
				PlayerID:   playerID,
				Experience: int64(score),
			})
		}
		h.enrichNames(entries)
		c.JSON(http.StatusOK, gin.H{"ranking": entries})
		return
	}

	// Fall back to the DB and warm the cache on the way out.
	var players []model.Player
	h.db.Select("id, name, level, experience").
		Order("experience DESC").
		Limit(limit).
		Find(&players)

	entries := make([]RankEntry, len(players))
	for i, p := range players {
		entries[i] = RankEntry{
			Rank:       i + 1,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Level:      p.Level,
			Experience: p.Experience,
		}
		_ = h.cache.ZAdd(ctx, rankingZKey, float64(p.Experience), strconv.FormatInt(p.ID, 10))
	}
	c.JSON(http.StatusOK, gin.H{"ranking": entries})
}

// Refresh rebuilds the ranking sorted set from the DB. Called periodically
// by the scheduler; also exposed as POST /api/admin/ranking/refresh.
func (h *RankingHandler) Refresh(c *gin.Context) {
	n, err := h.RefreshRanking(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeInternal, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": n})
}

// RefreshRanking loads the top players by experience into the sorted set.
func (h *RankingHandler) RefreshRanking(ctx context.Context) (int, error) {
	var players []model.Player
	if err := h.db.WithContext(ctx).
		Select("id, experience").
		Order("experience DESC").
		Limit(h.game.RankingTop).
		Find(&players).Error; err != nil {
		return 0, err
	}
	for _, p := range players {
		if err := h.cache.ZAdd(ctx, rankingZKey, float64(p.Experience), strconv.FormatInt(p.ID, 10)); err != nil {
			h.logger.Warn("ranking cache write failed", zap.Error(err))
		}
	}
	return len(players), nil
}

func (h *RankingHandler) enrichNames(entries []RankEntry) {
	if len(entries) == 0 {
		return
	}
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}
	var players []model.Player
	h.db.Select("id, name, level, experience").Where("id IN ?", ids).Find(&players)
	byID := make(map[int64]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for i := range entries {
		if p, ok := byID[entries[i].PlayerID]; ok {
			entries[i].PlayerName = p.Name
			entries[i].Level = p.Level
			entries[i].Experience = p.Experience
		}
	}
}
