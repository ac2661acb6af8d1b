package community

import (
	"context"
	"math"
	"sort"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const leaderboardSize = 5

// GenreCount is one genre with its association count.
type GenreCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Snapshot holds the global community statistics.
type Snapshot struct {
	Players           int64       `json:"players"`
	GamesInLibraries  int64       `json:"gamesInLibraries"`
	TotalCompletions  int64       `json:"totalCompletions"`
	CompletionRatePct int         `json:"completionRatePct"`
	MostPopularGenre  *GenreCount `json:"mostPopularGenre"`
}

// LeaderboardEntry is one game on the most-completed leaderboard.
type LeaderboardEntry struct {
	GameID          uuid.UUID `json:"gameId"`
	Title           string    `json:"title"`
	CompletionCount int64     `json:"completionCount"`
}

// Dashboard is the community dashboard payload.
type Dashboard struct {
	Snapshot           Snapshot           `json:"snapshot"`
	MostCompletedGames []LeaderboardEntry `json:"mostCompletedGames"`
}

// BuildDashboard computes the five aggregates concurrently and combines them
// once all succeed. A failure in any read fails the whole dashboard; there is
// no partial response. Each read is independently consistent, so the numbers
// are point-in-time approximate under concurrent writes.
func BuildDashboard(ctx context.Context, db *gorm.DB) (*Dashboard, error) {
	var (
		players          int64
		gamesInLibraries int64
		totalCompletions int64
		topGenres        []GenreCount
		leaderboard      []LeaderboardEntry
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.User{}).Count(&players).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.UserGame{}).Count(&gamesInLibraries).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.UserGame{}).
			Where("status = ?", models.StatusCompleted).
			Count(&totalCompletions).Error
	})
	g.Go(func() error {
		// Explode each association into its game's genres so every
		// (association, genre) pair counts once, then take the top genre.
		return db.WithContext(gctx).
			Table("user_games").
			Select("genres.name AS name, COUNT(*) AS count").
			Joins("JOIN game_genres ON game_genres.game_id = user_games.game_id").
			Joins("JOIN genres ON genres.id = game_genres.genre_id").
			Group("genres.name").
			Order("count DESC, name ASC").
			Limit(1).
			Scan(&topGenres).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Table("user_games").
			Select("games.id AS game_id, games.title AS title, COUNT(*) AS completion_count").
			Joins("JOIN games ON games.id = user_games.game_id").
			Where("user_games.status = ?", models.StatusCompleted).
			Group("games.id, games.title").
			Order("completion_count DESC, LOWER(games.title) ASC").
			Limit(leaderboardSize).
			Scan(&leaderboard).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Error building community dashboard", err)
	}

	sortLeaderboard(leaderboard)

	snapshot := Snapshot{
		Players:           players,
		GamesInLibraries:  gamesInLibraries,
		TotalCompletions:  totalCompletions,
		CompletionRatePct: completionRatePct(totalCompletions, gamesInLibraries),
	}
	if len(topGenres) > 0 {
		snapshot.MostPopularGenre = &topGenres[0]
	}

	if leaderboard == nil {
		leaderboard = []LeaderboardEntry{}
	}
	return &Dashboard{Snapshot: snapshot, MostCompletedGames: leaderboard}, nil
}

// completionRatePct derives the rounded completion percentage; defined as 0
// when no library rows exist so the division is never attempted.
func completionRatePct(completions, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completions) / float64(total) * 100))
}

// sortLeaderboard re-breaks title ties with locale-aware, case-insensitive
// collation so the order is identical across runs regardless of character
// case. The SQL ORDER BY already fixed the count order.
func sortLeaderboard(entries []LeaderboardEntry) {
	cl := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletionCount != entries[j].CompletionCount {
			return entries[i].CompletionCount > entries[j].CompletionCount
		}
		return cl.CompareString(entries[i].Title, entries[j].Title) < 0
	})
}
