package catalog

import (
	"context"
	"errors"
	"time"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// GameDetail is the denormalized details-page payload: the catalog record,
// its community completion count and, when a caller identity is known, that
// caller's own library entry for the game.
type GameDetail struct {
	ID                uuid.UUID                `json:"id"`
	RawgID            int64                    `json:"rawgId"`
	Slug              *string                  `json:"slug"`
	Title             string                   `json:"title"`
	ReleaseDate       *time.Time               `json:"releaseDate"`
	AvgCompletionTime float64                  `json:"avgCompletionTime"`
	ImageURL          *string                  `json:"imageUrl"`
	Description       string                   `json:"description"`
	Metacritic        *models.Metacritic       `json:"metacritic"`
	Screenshots       []string                 `json:"screenshots"`
	StoreLinks        []models.StoreLink       `json:"storeLinks"`
	Developers        []string                 `json:"developers"`
	ParentPlatforms   []string                 `json:"parentPlatforms"`
	PlatformsDetailed []models.PlatformDetail  `json:"platformsDetailed"`
	Genres            []string                 `json:"genres"`
	CompletedCount    int64                    `json:"completedCount"`
	UserStatus        *models.GameStatus       `json:"userStatus,omitempty"`
	UserGameID        *uuid.UUID               `json:"userGameId,omitempty"`
}

// ResolveGame finds a game by opaque identifier or slug. Anything that parses
// as a UUID is treated as an identifier; everything else is a slug lookup.
func ResolveGame(ctx context.Context, db *gorm.DB, idOrSlug string) (*models.Game, error) {
	q := db.WithContext(ctx).
		Preload("Platforms").
		Preload("PlatformsDetailed").
		Preload("Genres")

	var game models.Game
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		err = q.First(&game, "games.id = ?", id).Error
	} else {
		err = q.First(&game, "games.slug = ?", idOrSlug).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Game")
		}
		return nil, apperrors.Internal("Error fetching game", err)
	}
	return &game, nil
}

// GetDetail resolves a game and assembles its detail payload. The completion
// count and the caller's own library entry are independent reads and run
// concurrently.
func GetDetail(ctx context.Context, db *gorm.DB, idOrSlug string, userID *uuid.UUID) (*GameDetail, error) {
	game, err := ResolveGame(ctx, db, idOrSlug)
	if err != nil {
		return nil, err
	}

	var completedCount int64
	var userEntry *models.UserGame

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := CompletedCounts(gctx, db, []uuid.UUID{game.ID})
		if err != nil {
			return err
		}
		completedCount = counts[game.ID]
		return nil
	})
	if userID != nil {
		g.Go(func() error {
			var entry models.UserGame
			err := db.WithContext(gctx).
				Where("user_id = ? AND game_id = ?", *userID, game.ID).
				First(&entry).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return apperrors.Internal("Error fetching library entry", err)
			}
			userEntry = &entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &GameDetail{
		ID:                game.ID,
		RawgID:            game.RawgID,
		Slug:              game.Slug,
		Title:             game.Title,
		ReleaseDate:       game.ReleaseDate,
		AvgCompletionTime: game.AvgCompletionTime,
		ImageURL:          game.ImageURL,
		Description:       game.Description,
		Screenshots:       game.Screenshots,
		StoreLinks:        game.StoreLinks,
		Developers:        game.Developers,
		PlatformsDetailed: game.PlatformsDetailed,
		ParentPlatforms:   platformSlugs(game.Platforms),
		Genres:            genreNames(game.Genres),
		CompletedCount:    completedCount,
	}
	if game.Metacritic.Score != nil {
		m := game.Metacritic
		detail.Metacritic = &m
	}
	if userEntry != nil {
		detail.UserStatus = &userEntry.Status
		detail.UserGameID = &userEntry.ID
	}
	return detail, nil
}

func platformSlugs(platforms []*models.Platform) []string {
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p != nil {
			out = append(out, p.Slug)
		}
	}
	return out
}

func genreNames(genres []*models.Genre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g != nil {
			out = append(out, g.Name)
		}
	}
	return out
}
