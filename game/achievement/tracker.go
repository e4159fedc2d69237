// Package achievement tracks per-player progress toward achievements and
// pays out experience rewards on completion.
package achievement

import (
	"context"
	"errors"
	"time"

	"github.com/azerothdev/azeroth-api/game/progression"
	"github.com/azerothdev/azeroth-api/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPlayerNotFound      = errors.New("achievement: player not found")
	ErrAchievementNotFound = errors.New("achievement: achievement not found")
	ErrProgressNotFound    = errors.New("achievement: progress not found")
)

// Tracker handles all progress operations.
type Tracker struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTracker creates a progress Tracker.
func NewTracker(db *gorm.DB, logger *zap.Logger) *Tracker {
	return &Tracker{db: db, logger: logger}
}

// InitializeProgress creates one IN_PROGRESS row per catalog achievement for
// the player, skipping pairs that already have a row. TargetValue is copied
// from the achievement at creation time.
func (t *Tracker) InitializeProgress(ctx context.Context, playerID int64) ([]model.Progress, error) {
	var created []model.Progress
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player model.Player
		if err := tx.First(&player, playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		var achievements []model.Achievement
		if err := tx.Find(&achievements).Error; err != nil {
			return err
		}

		existing := make(map[int64]bool)
		var rows []model.Progress
		if err := tx.Where("player_id = ?", playerID).Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			existing[row.AchievementID] = true
		}

		for _, a := range achievements {
			if existing[a.ID] {
				continue
			}
			p := model.Progress{
				PlayerID:      playerID,
				AchievementID: a.ID,
				Status:        model.StatusInProgress,
				CurrentValue:  0,
				TargetValue:   a.TargetValue,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListForPlayer returns every progress row for the player.
func (t *Tracker) ListForPlayer(ctx context.Context, playerID int64) ([]model.Progress, error) {
	var count int64
	if err := t.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ?", playerID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPlayerNotFound
	}

	var rows []model.Progress
	if err := t.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("achievement_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Advance increments the player's progress toward one achievement by a single
// step. Advancing a COMPLETED row is a no-op, as is a row whose current value
// already meets its target. When the step reaches the target the row is
// completed, CompletedOn is stamped once, and the achievement's reward points
// are granted as experience through the progression rules. The rows are read
// with FOR UPDATE locks so two concurrent advances cannot both see the same
// pre-completion state and double-grant the reward; the read, the update and
// the reward all commit together.
func (t *Tracker) Advance(ctx context.Context, playerID, achievementID int64) (*model.Progress, *model.Player, error) {
	var (
		prog   model.Progress
		player model.Player
	)
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		forUpdate := clause.Locking{Strength: "UPDATE"}
		if err := tx.Clauses(forUpdate).First(&player, playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		var ach model.Achievement
		if err := tx.Clauses(forUpdate).First(&ach, achievementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAchievementNotFound
			}
			return err
		}
		if err := tx.Clauses(forUpdate).
			Where("player_id = ? AND achievement_id = ?", playerID, achievementID).
			First(&prog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgressNotFound
			}
			return err
		}

		if prog.Status == model.StatusCompleted {
			return nil // terminal, repeat calls change nothing
		}
		if prog.CurrentValue >= prog.TargetValue {
			return nil
		}

		prog.CurrentValue++
		prog.Status = model.StatusInProgress
		if prog.CurrentValue >= prog.TargetValue {
			now := time.Now()
			prog.Status = model.StatusCompleted
			prog.CompletedOn = &now
			if err := progression.GrantExperience(&player, ach.RewardPoints); err != nil {
				return err
			}
			if err := tx.Model(&model.Player{}).Where("id = ?", player.ID).
				Updates(map[string]interface{}{
					"level":      player.Level,
					"experience": player.Experience,
				}).Error; err != nil {
				return err
			}
			t.logger.Info("achievement completed",
				zap.Int64("player_id", playerID),
				zap.Int64("achievement_id", achievementID),
				zap.Float64("reward_points", ach.RewardPoints))
		}
		return tx.Save(&prog).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &prog, &player, nil
}
