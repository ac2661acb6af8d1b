package catalog

import (
	"context"
	"testing"
	"time"

	"gameshelf/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-5":  1,
		"3":   3,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ClampPage(raw), "page=%q", raw)
	}
}

func TestClampPageSize(t *testing.T) {
	cases := []struct {
		raw      string
		def, max int
		want     int
	}{
		{"", 24, 100, 24},
		{"nope", 24, 100, 24},
		{"0", 24, 100, 24},
		{"-1", 5, 24, 5},
		{"999", 24, 100, 100},
		{"999", 5, 24, 24},
		{"10", 24, 100, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampPageSize(tc.raw, tc.def, tc.max), "pageSize=%q def=%d", tc.raw, tc.def)
	}
}

func TestSortOrder_UnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, sortOrders[DefaultSort], SortOrder("bogus"))
	assert.Equal(t, sortOrders["title-asc"], SortOrder("title-asc"))
}

func TestFetchPage_TotalIndependentOfPage(t *testing.T) {
	db := testutil.NewTestDB(t)
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		testutil.CreateGame(t, db, title)
	}

	res, err := FetchPage(context.Background(), db, Filter{}.Scope(), SortOrder("title-asc"), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.PageSize)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "C", res.Items[0].Title)
	assert.Equal(t, "D", res.Items[1].Title)
}

func TestFetchPage_DeterministicTieBreak(t *testing.T) {
	db := testutil.NewTestDB(t)
	// Same score and release date; only the title breaks the tie, and it
	// must do so case-insensitively.
	testutil.CreateGame(t, db, "beta", testutil.WithScore(90), testutil.WithReleaseDate(2020, 1, 1))
	testutil.CreateGame(t, db, "Alpha", testutil.WithScore(90), testutil.WithReleaseDate(2020, 1, 1))
	testutil.CreateGame(t, db, "Gamma", testutil.WithScore(95), testutil.WithReleaseDate(2020, 1, 1))

	for range 3 {
		res, err := FetchPage(context.Background(), db, Filter{}.Scope(), SortOrder("metacritic-desc"), 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, "Gamma", res.Items[0].Title)
		assert.Equal(t, "Alpha", res.Items[1].Title)
		assert.Equal(t, "beta", res.Items[2].Title)
	}
}

func TestTopRatedScope_ExcludesUnscored(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateGame(t, db, "Scored", testutil.WithScore(80))
	testutil.CreateGame(t, db, "Unscored")

	res, err := FetchPage(context.Background(), db, TopRatedScope(), TopRatedOrder, 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Scored", res.Items[0].Title)
}

func TestLatestScope_ExclusionRules(t *testing.T) {
	db := testutil.NewTestDB(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	testutil.CreateGame(t, db, "Released Console",
		testutil.WithReleaseDate(2024, 5, 1),
		testutil.WithPlatforms(t, db, "playstation", "pc"))
	testutil.CreateGame(t, db, "Future",
		testutil.WithReleaseDate(2025, 1, 1),
		testutil.WithPlatforms(t, db, "playstation"))
	testutil.CreateGame(t, db, "TBA",
		testutil.WithPlatforms(t, db, "playstation"))
	testutil.CreateGame(t, db, "Desktop Only",
		testutil.WithReleaseDate(2024, 4, 1),
		testutil.WithPlatforms(t, db, "pc", "mac"))

	res, err := FetchPage(context.Background(), db,
		LatestScope(now, []string{"pc", "mac", "web"}), LatestOrder, 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Released Console", res.Items[0].Title)
}
