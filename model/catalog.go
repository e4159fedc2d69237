package model

// Faction is one of the two playable sides.
type Faction struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;size:32;not null" json:"name"`
}

const (
	FactionAlliance = "ALLIANCE"
	FactionHorde    = "HORDE"
)

// Race belongs to a faction and restricts which classes may be picked.
// The race_classes join table is the explicit availability relation.
type Race struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"uniqueIndex;size:32;not null" json:"name"`
	FactionID int64   `gorm:"not null" json:"faction_id"`
	Classes   []Class `gorm:"many2many:race_classes" json:"classes,omitempty"`
}

// Class is a playable character class.
type Class struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;size:32;not null" json:"name"`
}

// Expansion names a game release and the level cap it introduced.
type Expansion struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	MaxLevel int    `gorm:"not null" json:"max_level"`
}
