package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameStatus is a user's relationship to a game in their library.
type GameStatus string

const (
	StatusOwned     GameStatus = "owned"
	StatusPlaying   GameStatus = "playing"
	StatusCompleted GameStatus = "completed"
	StatusWishlist  GameStatus = "wishlist"
)

// AllowedStatuses is the closed set of library statuses. Anything else is
// rejected at the input boundary, not left to storage constraints.
var AllowedStatuses = []GameStatus{StatusOwned, StatusPlaying, StatusCompleted, StatusWishlist}

// ParseGameStatus validates a raw status value against the closed set.
func ParseGameStatus(raw string) (GameStatus, bool) {
	for _, s := range AllowedStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// UserGame is one library entry. The composite unique index guarantees at
// most one entry per (user, game) pair; all mutations are single-row.
type UserGame struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_game"`
	GameID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_game;index"`
	Status GameStatus `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (ug *UserGame) BeforeCreate(tx *gorm.DB) error {
	if ug.ID == uuid.Nil {
		ug.ID = uuid.New()
	}
	return nil
}
