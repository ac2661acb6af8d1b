package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestShouldIngest(t *testing.T) {
	cases := []struct {
		name       string
		candidate  Candidate
		wantAllow  bool
		wantReason RejectReason
	}{
		{
			name: "console game with image passes",
			candidate: Candidate{
				Title:           "Chrono Trigger",
				ImageURL:        strPtr("https://img.example/ct.jpg"),
				ParentPlatforms: []string{"nintendo", "playstation"},
			},
			wantAllow: true,
		},
		{
			name: "cjk title rejected before any other check",
			candidate: Candidate{
				Title: "ドラゴンクエスト",
				// No image either; the title check must win.
				ParentPlatforms: []string{"nintendo"},
			},
			wantReason: ReasonNonLatinTitle,
		},
		{
			name: "no platforms at all",
			candidate: Candidate{
				Title:    "Mystery Release",
				ImageURL: strPtr("https://img.example/m.jpg"),
			},
			wantReason: ReasonNoParentPlatforms,
		},
		{
			name: "missing image",
			candidate: Candidate{
				Title:           "Panzer Dragoon",
				ParentPlatforms: []string{"sega"},
			},
			wantReason: ReasonNoImage,
		},
		{
			name: "empty image string treated as missing",
			candidate: Candidate{
				Title:           "Panzer Dragoon",
				ImageURL:        strPtr(""),
				ParentPlatforms: []string{"sega"},
			},
			wantReason: ReasonNoImage,
		},
		{
			name: "desktop-only candidate excluded",
			candidate: Candidate{
				Title:           "Dwarf Fortress",
				ImageURL:        strPtr("https://img.example/df.jpg"),
				ParentPlatforms: []string{"pc", "linux", "mac"},
			},
			wantReason: ReasonPlatformExcluded,
		},
		{
			name: "one console family among desktop platforms is enough",
			candidate: Candidate{
				Title:           "Stardew Valley",
				ImageURL:        strPtr("https://img.example/sv.jpg"),
				ParentPlatforms: []string{"pc", "playstation"},
			},
			wantAllow: true,
		},
		{
			name: "console family found via detailed platforms",
			candidate: Candidate{
				Title:    "Alex Kidd",
				ImageURL: strPtr("https://img.example/ak.jpg"),
				PlatformsDetailed: []PlatformRef{
					{RawgID: 107, Slug: "sega-master-system", Name: "SEGA Master System"},
					{RawgID: 1, Slug: "sega", Name: "SEGA"},
				},
			},
			wantAllow: true,
		},
		{
			name: "platform slug matching ignores case",
			candidate: Candidate{
				Title:           "Tetris",
				ImageURL:        strPtr("https://img.example/t.jpg"),
				ParentPlatforms: []string{"Nintendo"},
			},
			wantAllow: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ShouldIngest(tc.candidate, nil)
			assert.Equal(t, tc.wantAllow, got.Allowed)
			assert.Equal(t, tc.wantReason, got.Reason)
		})
	}
}

func TestIsMostlyNonLatin_Threshold(t *testing.T) {
	// Five runes, three exotic: exactly 60%, which does not cross the
	// strictly-greater threshold.
	assert.False(t, isMostlyNonLatin("ドラゴab"))
	// Four exotic out of five crosses it.
	assert.True(t, isMostlyNonLatin("ドラゴンa"))

	assert.False(t, isMostlyNonLatin(""))
	assert.False(t, isMostlyNonLatin("Final Fantasy VII: Remake!"))
	// Accented Latin is still Latin.
	assert.False(t, isMostlyNonLatin("Pokémon Café"))
}
