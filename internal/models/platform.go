package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform is a coarse platform family badge (e.g. "pc", "playstation",
// "nintendo"). Games reference families through the game_platforms join table.
type Platform struct {
	gorm.Model
	Slug string `gorm:"size:100;uniqueIndex;not null"`
	Name string `gorm:"size:255"`
}

// PlatformDetail is a fine-grained platform descriptor for the details page
// (e.g. slug "playstation5"), one row per (game, platform) pair.
type PlatformDetail struct {
	ID     uint      `gorm:"primaryKey"`
	GameID uuid.UUID `gorm:"type:uuid;not null;index"`
	RawgID int64
	Slug   string `gorm:"size:100;not null"`
	Name   string `gorm:"size:255"`
}

// Genre is a genre name shared across games via the game_genres join table.
type Genre struct {
	gorm.Model
	Name string `gorm:"size:100;uniqueIndex;not null"`
}
