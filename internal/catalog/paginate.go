package catalog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// sortOrders maps wire sort keys to deterministic multi-key order clauses.
// Every clause ends on a case-insensitive title so ties never reorder between
// requests; unscored and undated rows sort after everything else.
var sortOrders = map[string]string{
	"metacritic-desc": "metacritic_score DESC NULLS LAST, release_date DESC NULLS LAST, LOWER(title) ASC",
	"metacritic-asc":  "metacritic_score ASC NULLS LAST, release_date ASC NULLS LAST, LOWER(title) ASC",
	"released-desc":   "release_date DESC NULLS LAST, LOWER(title) ASC",
	"released-asc":    "release_date ASC NULLS LAST, LOWER(title) ASC",
	"title-asc":       "LOWER(title) ASC",
	"title-desc":      "LOWER(title) DESC",
}

// DefaultSort is the browse-list order when the caller names none.
const DefaultSort = "metacritic-desc"

// SortOrder resolves a wire sort key, falling back to the default order for
// unknown keys.
func SortOrder(key string) string {
	if order, ok := sortOrders[key]; ok {
		return order
	}
	return sortOrders[DefaultSort]
}

// ClampPage resolves a raw page parameter. Absent, non-numeric, zero and
// negative values all fall back to the first page.
func ClampPage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ClampPageSize resolves a raw page-size parameter against an endpoint's
// default and cap, under the same fallback conditions as ClampPage.
func ClampPageSize(raw string, def, max int) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return size
}

// PageResult is the paged envelope shape.
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// FetchPage runs the filtered, ordered, limited read plus the unlimited
// filtered count. The two reads are independent and issued concurrently;
// either failure fails the whole page, never a partial result.
func FetchPage(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB, order string, page, pageSize int) (*PageResult[models.Game], error) {
	var total int64
	var items []models.Game

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scope(db.WithContext(gctx).Model(&models.Game{})).Count(&total).Error
	})
	g.Go(func() error {
		return scope(db.WithContext(gctx).Model(&models.Game{})).
			Preload("Platforms").
			Preload("Genres").
			Order(order).
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Error fetching games", err)
	}

	if items == nil {
		items = []models.Game{}
	}
	return &PageResult[models.Game]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// TopRatedScope restricts a query to games that actually carry a critic score.
func TopRatedScope() func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("metacritic_score IS NOT NULL")
	}
}

// TopRatedOrder sorts best-first with a stable title tie-break.
const TopRatedOrder = "metacritic_score DESC NULLS LAST, LOWER(title) ASC"

// LatestScope restricts a query to released, non-future games that are
// available on at least one platform family outside the excluded set
// (desktop/web-only titles are hidden from the latest view).
func LatestScope(now time.Time, excluded []string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("games.release_date IS NOT NULL").
			Where("games.release_date <= ?", now)
		if len(excluded) > 0 {
			sub := q.Session(&gorm.Session{NewDB: true}).
				Table("game_platforms").
				Select("game_platforms.game_id").
				Joins("JOIN platforms ON platforms.id = game_platforms.platform_id").
				Where("platforms.slug NOT IN ?", excluded)
			q = q.Where("games.id IN (?)", sub)
		}
		return q
	}
}

// LatestOrder sorts newest-first with a stable title tie-break.
const LatestOrder = "release_date DESC, LOWER(title) ASC"
