package ingestion

import (
	"context"
	"errors"
	"time"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Record is a gate-approved candidate in its storable form, as produced by
// the fetch job's mapping step.
type Record struct {
	Candidate
	RawgID            int64              `json:"rawgId"`
	Slug              *string            `json:"slug"`
	ReleaseDate       *time.Time         `json:"releaseDate"`
	AvgCompletionTime float64            `json:"avgCompletionTime"`
	Description       string             `json:"description"`
	Genres            []string           `json:"genres"`
	Developers        []string           `json:"developers"`
	Screenshots       []string           `json:"screenshots"`
	StoreLinks        []models.StoreLink `json:"storeLinks"`
	MetacriticScore   *int               `json:"metacriticScore"`
	MetacriticURL     string             `json:"metacriticUrl"`
}

// Upsert writes a record into the catalog keyed on its external identifier,
// creating the row on first sight and replacing its fields and associations
// on every later sight. Lookup rows (platforms, genres) are created on demand.
func Upsert(ctx context.Context, db *gorm.DB, rec Record) error {
	platforms, err := resolvePlatforms(ctx, db, rec.ParentPlatforms)
	if err != nil {
		return err
	}
	genres, err := resolveGenres(ctx, db, rec.Genres)
	if err != nil {
		return err
	}

	detailed := make([]models.PlatformDetail, 0, len(rec.PlatformsDetailed))
	for _, p := range rec.PlatformsDetailed {
		detailed = append(detailed, models.PlatformDetail{RawgID: p.RawgID, Slug: p.Slug, Name: p.Name})
	}

	game := models.Game{
		RawgID:            rec.RawgID,
		Slug:              rec.Slug,
		Title:             rec.Title,
		ReleaseDate:       rec.ReleaseDate,
		AvgCompletionTime: rec.AvgCompletionTime,
		ImageURL:          rec.ImageURL,
		Description:       rec.Description,
		Metacritic:        models.Metacritic{Score: rec.MetacriticScore, URL: rec.MetacriticURL},
		Screenshots:       rec.Screenshots,
		StoreLinks:        rec.StoreLinks,
		Developers:        rec.Developers,
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Game
		err := tx.Where("rawg_id = ?", rec.RawgID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			game.Platforms = platforms
			game.Genres = genres
			game.PlatformsDetailed = detailed
			if err := tx.Create(&game).Error; err != nil {
				return apperrors.Internal("Error creating game", err)
			}
			return nil
		case err != nil:
			return apperrors.Internal("Error looking up game", err)
		}

		game.ID = existing.ID
		game.CreatedAt = existing.CreatedAt
		if err := tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(&game).Error; err != nil {
			return apperrors.Internal("Error updating game", err)
		}
		if err := tx.Model(&existing).Association("Platforms").Replace(platforms); err != nil {
			return apperrors.Internal("Error updating game platforms", err)
		}
		if err := tx.Model(&existing).Association("Genres").Replace(genres); err != nil {
			return apperrors.Internal("Error updating game genres", err)
		}
		if err := tx.Where("game_id = ?", existing.ID).Delete(&models.PlatformDetail{}).Error; err != nil {
			return apperrors.Internal("Error clearing platform details", err)
		}
		for i := range detailed {
			detailed[i].GameID = existing.ID
		}
		if len(detailed) > 0 {
			if err := tx.Create(&detailed).Error; err != nil {
				return apperrors.Internal("Error writing platform details", err)
			}
		}
		return nil
	})
}

func resolvePlatforms(ctx context.Context, db *gorm.DB, slugs []string) ([]*models.Platform, error) {
	out := make([]*models.Platform, 0, len(slugs))
	for _, slug := range slugs {
		var p models.Platform
		err := db.WithContext(ctx).Where(models.Platform{Slug: slug}).FirstOrCreate(&p).Error
		if err != nil {
			return nil, apperrors.Internal("Error resolving platform", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

func resolveGenres(ctx context.Context, db *gorm.DB, names []string) ([]*models.Genre, error) {
	out := make([]*models.Genre, 0, len(names))
	for _, name := range names {
		var g models.Genre
		err := db.WithContext(ctx).Where(models.Genre{Name: name}).FirstOrCreate(&g).Error
		if err != nil {
			return nil, apperrors.Internal("Error resolving genre", err)
		}
		out = append(out, &g)
	}
	return out, nil
}
