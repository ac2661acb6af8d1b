package catalog

import (
	"context"
	"testing"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedCounts_OnlyCompletedEntriesCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	game := testutil.CreateGame(t, db, "Counted")
	other := testutil.CreateGame(t, db, "Untouched")

	u1 := testutil.CreateUser(t, db)
	u2 := testutil.CreateUser(t, db)
	u3 := testutil.CreateUser(t, db)
	testutil.CreateEntry(t, db, u1.ID, game.ID, models.StatusCompleted)
	testutil.CreateEntry(t, db, u2.ID, game.ID, models.StatusCompleted)
	testutil.CreateEntry(t, db, u3.ID, game.ID, models.StatusPlaying)

	counts, err := CompletedCounts(context.Background(), db, []uuid.UUID{game.ID, other.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(2), counts[game.ID])
	assert.Zero(t, counts[other.ID])
}

func TestCompletedCounts_EmptyInputSkipsStore(t *testing.T) {
	// A nil handle would panic on any query; an empty id list must not reach one.
	counts, err := CompletedCounts(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAugmentGames_PreservesOrderAndLength(t *testing.T) {
	db := testutil.NewTestDB(t)
	first := testutil.CreateGame(t, db, "First")
	second := testutil.CreateGame(t, db, "Second")
	third := testutil.CreateGame(t, db, "Third")

	user := testutil.CreateUser(t, db)
	testutil.CreateEntry(t, db, user.ID, second.ID, models.StatusCompleted)

	out, err := AugmentGames(context.Background(), db, []models.Game{third, first, second})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Third", out[0].Title)
	assert.Equal(t, "First", out[1].Title)
	assert.Equal(t, "Second", out[2].Title)
	assert.Zero(t, out[0].CompletedCount)
	assert.Zero(t, out[1].CompletedCount)
	assert.Equal(t, int64(1), out[2].CompletedCount)
}

func TestAugmentGames_EmptyBatch(t *testing.T) {
	out, err := AugmentGames(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
