package model

import "time"

// Player represents a user's game character.
// Experience counts toward the next level above Level and is always integral.
type Player struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Level      int       `gorm:"default:1;not null" json:"level"`
	Experience int64     `gorm:"default:0;not null" json:"experience"`
	UserID     int64     `gorm:"index:idx_player_user;not null" json:"user_id"`
	FactionID  int64     `gorm:"not null" json:"faction_id"`
	RaceID     int64     `gorm:"not null" json:"race_id"`
	ClassID    int64     `gorm:"not null" json:"class_id"`
	GuildID    *int64    `json:"guild_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
