package testutil

import (
	"fmt"
	"testing"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory database with the full schema. Each
// call gets its own database; the shared cache keeps it alive across the
// connection pool.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// GameOption mutates a game under construction.
type GameOption func(*models.Game)

var rawgSeq int64

// CreateGame inserts a game with sensible defaults, overridden by options.
func CreateGame(t *testing.T, db *gorm.DB, title string, opts ...GameOption) models.Game {
	t.Helper()

	rawgSeq++
	game := models.Game{
		RawgID: rawgSeq,
		Title:  title,
	}
	for _, opt := range opts {
		opt(&game)
	}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func WithSlug(slug string) GameOption {
	return func(g *models.Game) { g.Slug = &slug }
}

func WithScore(score int) GameOption {
	return func(g *models.Game) { g.Metacritic.Score = &score }
}

func WithReleaseDate(year, month, day int) GameOption {
	return func(g *models.Game) {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		g.ReleaseDate = &d
	}
}

func WithImage(url string) GameOption {
	return func(g *models.Game) { g.ImageURL = &url }
}

// WithPlatforms attaches platform family rows, creating them on demand.
func WithPlatforms(t *testing.T, db *gorm.DB, slugs ...string) GameOption {
	return func(g *models.Game) {
		for _, slug := range slugs {
			var p models.Platform
			require.NoError(t, db.Where(models.Platform{Slug: slug}).FirstOrCreate(&p).Error)
			g.Platforms = append(g.Platforms, &p)
		}
	}
}

// WithGenres attaches genre rows, creating them on demand.
func WithGenres(t *testing.T, db *gorm.DB, names ...string) GameOption {
	return func(g *models.Game) {
		for _, name := range names {
			var genre models.Genre
			require.NoError(t, db.Where(models.Genre{Name: name}).FirstOrCreate(&genre).Error)
			g.Genres = append(g.Genres, &genre)
		}
	}
}

// CreateUser inserts an anonymous user.
func CreateUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	device := uuid.NewString()
	user := models.User{DeviceID: &device, Role: models.RoleAnonymous, LastSeenAt: time.Now().UTC()}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateEntry inserts a library entry.
func CreateEntry(t *testing.T, db *gorm.DB, userID, gameID uuid.UUID, status models.GameStatus) models.UserGame {
	t.Helper()

	entry := models.UserGame{UserID: userID, GameID: gameID, Status: status}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}
