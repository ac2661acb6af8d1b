package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreLink points at a storefront page for a game.
type StoreLink struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

// Metacritic holds the critic rating block. A nil Score means the game has
// no rating; such games are excluded from score-ordered views.
type Metacritic struct {
	Score *int   `json:"score" gorm:"column:metacritic_score;index"`
	URL   string `json:"url" gorm:"column:metacritic_url;size:512"`
}

// Game is one catalog item. Rows are created and updated exclusively by
// ingestion upserts keyed on RawgID; end-user actions never create games.
type Game struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	RawgID int64     `gorm:"uniqueIndex;not null"`
	Slug   *string   `gorm:"size:255;uniqueIndex"`
	Title  string    `gorm:"size:512;not null;index"`

	// Nil means TBA.
	ReleaseDate *time.Time `gorm:"index"`

	AvgCompletionTime float64 `gorm:"not null;default:0"`
	ImageURL          *string `gorm:"size:1024"`
	Description       string
	Metacritic        Metacritic `gorm:"embedded"`

	// Display-only lists; never filtered on, so they live in JSON columns.
	Screenshots []string    `gorm:"serializer:json"`
	StoreLinks  []StoreLink `gorm:"serializer:json"`
	Developers  []string    `gorm:"serializer:json"`

	// Filterable lists get join tables.
	Platforms         []*Platform      `gorm:"many2many:game_platforms;"`
	PlatformsDetailed []PlatformDetail `gorm:"constraint:OnDelete:CASCADE;"`
	Genres            []*Genre         `gorm:"many2many:game_genres;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// ReleaseYear returns the release year, or 0 when the date is unknown.
func (g *Game) ReleaseYear() int {
	if g.ReleaseDate == nil {
		return 0
	}
	return g.ReleaseDate.Year()
}
