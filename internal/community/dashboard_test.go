package community

import (
	"context"
	"fmt"
	"testing"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard_EmptyStore(t *testing.T) {
	db := testutil.NewTestDB(t)

	dash, err := BuildDashboard(context.Background(), db)
	require.NoError(t, err)

	assert.Zero(t, dash.Snapshot.Players)
	assert.Zero(t, dash.Snapshot.GamesInLibraries)
	assert.Zero(t, dash.Snapshot.TotalCompletions)
	assert.Zero(t, dash.Snapshot.CompletionRatePct)
	assert.Nil(t, dash.Snapshot.MostPopularGenre)
	assert.NotNil(t, dash.MostCompletedGames)
	assert.Empty(t, dash.MostCompletedGames)
}

func TestBuildDashboard_Aggregates(t *testing.T) {
	db := testutil.NewTestDB(t)

	rpg := testutil.CreateGame(t, db, "Dragon Quest", testutil.WithGenres(t, db, "RPG"))
	race := testutil.CreateGame(t, db, "Kart Mania", testutil.WithGenres(t, db, "Racing", "RPG"))

	u1 := testutil.CreateUser(t, db)
	u2 := testutil.CreateUser(t, db)
	u3 := testutil.CreateUser(t, db)

	testutil.CreateEntry(t, db, u1.ID, rpg.ID, models.StatusCompleted)
	testutil.CreateEntry(t, db, u2.ID, rpg.ID, models.StatusCompleted)
	testutil.CreateEntry(t, db, u3.ID, rpg.ID, models.StatusPlaying)
	testutil.CreateEntry(t, db, u1.ID, race.ID, models.StatusCompleted)

	dash, err := BuildDashboard(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, int64(3), dash.Snapshot.Players)
	assert.Equal(t, int64(4), dash.Snapshot.GamesInLibraries)
	assert.Equal(t, int64(3), dash.Snapshot.TotalCompletions)
	assert.Equal(t, 75, dash.Snapshot.CompletionRatePct)

	// RPG appears in all four library rows (three via Dragon Quest, one via
	// Kart Mania); Racing only in one.
	require.NotNil(t, dash.Snapshot.MostPopularGenre)
	assert.Equal(t, "RPG", dash.Snapshot.MostPopularGenre.Name)
	assert.Equal(t, int64(4), dash.Snapshot.MostPopularGenre.Count)

	require.Len(t, dash.MostCompletedGames, 2)
	assert.Equal(t, "Dragon Quest", dash.MostCompletedGames[0].Title)
	assert.Equal(t, int64(2), dash.MostCompletedGames[0].CompletionCount)
	assert.Equal(t, "Kart Mania", dash.MostCompletedGames[1].Title)
	assert.Equal(t, int64(1), dash.MostCompletedGames[1].CompletionCount)
}

func TestBuildDashboard_LeaderboardTieBreakAndCutoff(t *testing.T) {
	db := testutil.NewTestDB(t)

	user := testutil.CreateUser(t, db)
	for _, title := range []string{"zeta", "Alpha", "mango", "Beta", "Omega", "Kappa"} {
		game := testutil.CreateGame(t, db, title)
		testutil.CreateEntry(t, db, user.ID, game.ID, models.StatusCompleted)
	}

	dash, err := BuildDashboard(context.Background(), db)
	require.NoError(t, err)

	// Six games tie on one completion each; the board keeps five, ordered by
	// title ignoring case.
	require.Len(t, dash.MostCompletedGames, 5)
	got := make([]string, len(dash.MostCompletedGames))
	for i, entry := range dash.MostCompletedGames {
		got[i] = entry.Title
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Kappa", "mango", "Omega"}, got)
}

func TestCompletionRatePct_Rounding(t *testing.T) {
	cases := []struct {
		completions, total int64
		want               int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_of_%d", tc.completions, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.want, completionRatePct(tc.completions, tc.total))
		})
	}
}
