package model

import "time"

// Guild groups players of a single faction ("hermandad").
type Guild struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Realm     string    `gorm:"size:64;not null" json:"realm"`
	FactionID int64     `gorm:"not null" json:"faction_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
