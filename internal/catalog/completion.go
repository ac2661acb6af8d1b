package catalog

import (
	"context"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletedCounts returns completed-library-entry counts for the given game
// identities with a single grouped query, however many ids are passed.
// Missing ids simply have no key; callers read the map with a zero default.
// An empty id list never touches the store.
func CompletedCounts(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	distinct := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	var rows []struct {
		GameID uuid.UUID
		Count  int64
	}
	err := db.WithContext(ctx).
		Model(&models.UserGame{}).
		Select("game_id, COUNT(*) AS count").
		Where("game_id IN ?", distinct).
		Where("status = ?", models.StatusCompleted).
		Group("game_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("Error counting completions", err)
	}

	for _, row := range rows {
		counts[row.GameID] = row.Count
	}
	return counts, nil
}

// AugmentedGame is a catalog item plus its community completion count.
type AugmentedGame struct {
	models.Game
	CompletedCount int64 `json:"completedCount"`
}

// AugmentGames attaches completion counts to a batch of games, preserving the
// batch's order and length. Games nobody has completed report 0.
func AugmentGames(ctx context.Context, db *gorm.DB, games []models.Game) ([]AugmentedGame, error) {
	out := make([]AugmentedGame, 0, len(games))
	if len(games) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}

	counts, err := CompletedCounts(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	for _, g := range games {
		out = append(out, AugmentedGame{Game: g, CompletedCount: counts[g.ID]})
	}
	return out, nil
}
