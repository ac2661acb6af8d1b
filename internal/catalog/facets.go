package catalog

import (
	"context"
	"time"

	"gameshelf/backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// FacetValue is one filterable value and how many games carry it.
type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Facets describes the filter space of the whole catalog: which platform
// families and genres exist, with counts, and the release-year bounds.
type Facets struct {
	Platforms []FacetValue `json:"platforms"`
	Genres    []FacetValue `json:"genres"`
	YearMin   *int         `json:"yearMin"`
	YearMax   *int         `json:"yearMax"`
}

// GetFacets computes the three facet dimensions with independent grouped
// reads issued concurrently.
func GetFacets(ctx context.Context, db *gorm.DB) (*Facets, error) {
	facets := &Facets{Platforms: []FacetValue{}, Genres: []FacetValue{}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).
			Table("game_platforms").
			Select("platforms.slug AS value, COUNT(*) AS count").
			Joins("JOIN platforms ON platforms.id = game_platforms.platform_id").
			Group("platforms.slug").
			Order("count DESC, value ASC").
			Scan(&facets.Platforms).Error
	})

	g.Go(func() error {
		return db.WithContext(gctx).
			Table("game_genres").
			Select("genres.name AS value, COUNT(*) AS count").
			Joins("JOIN genres ON genres.id = game_genres.genre_id").
			Group("genres.name").
			Order("count DESC, value ASC").
			Scan(&facets.Genres).Error
	})

	g.Go(func() error {
		var bounds struct {
			Min *time.Time
			Max *time.Time
		}
		err := db.WithContext(gctx).
			Table("games").
			Select("MIN(release_date) AS min, MAX(release_date) AS max").
			Where("release_date IS NOT NULL").
			Scan(&bounds).Error
		if err != nil {
			return err
		}
		if bounds.Min != nil {
			y := bounds.Min.Year()
			facets.YearMin = &y
		}
		if bounds.Max != nil {
			y := bounds.Max.Year()
			facets.YearMax = &y
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Error fetching facets", err)
	}
	return facets, nil
}
