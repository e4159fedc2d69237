package model

import "time"

// Achievement is a definable goal with a progress target and an
// experience reward ("logro").
type Achievement struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	RewardPoints float64   `gorm:"type:decimal(20,2);not null" json:"reward_points"`
	TargetValue  int       `gorm:"not null" json:"target_value"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProgressStatus is the completion state of one player/achievement pair.
// COMPLETED is terminal.
type ProgressStatus = string

const (
	StatusNotStarted ProgressStatus = "NOT_STARTED"
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusCompleted  ProgressStatus = "COMPLETED"
)

// Progress tracks one player's advance toward one achievement.
// TargetValue is copied from the achievement when the row is created so
// later achievement edits do not move the goalpost.
type Progress struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID      int64      `gorm:"uniqueIndex:idx_player_achievement;not null" json:"player_id"`
	AchievementID int64      `gorm:"uniqueIndex:idx_player_achievement;not null" json:"achievement_id"`
	Status        string     `gorm:"size:16;default:NOT_STARTED;not null" json:"status"`
	CurrentValue  int        `gorm:"default:0;not null" json:"current_value"`
	TargetValue   int        `gorm:"not null" json:"target_value"`
	CompletedOn   *time.Time `json:"completed_on"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
