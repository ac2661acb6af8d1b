package catalog

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// platformFamilies collapses raw platform identifiers onto their canonical
// family slug. RAWG's parent mapping puts Switch under nintendo. Unrecognized
// tokens pass through unchanged.
var platformFamilies = map[string]string{
	"pc":              "pc",
	"playstation":     "playstation",
	"xbox":            "xbox",
	"switch":          "nintendo",
	"nintendo":        "nintendo",
	"mac":             "mac",
	"linux":           "linux",
	"ios":             "ios",
	"android":         "android",
	"sega":            "sega",
	"commodore-amiga": "commodore-amiga",
	"neo-geo":         "neo-geo",
}

// Input is the raw, untrusted filter request as parsed off the wire.
// YearMin/YearMax are floats so that non-finite values can be detected and
// silently dropped rather than treated as bounds.
type Input struct {
	Q         string
	Platforms []string
	Genres    []string
	Years     []int
	YearMin   *float64
	YearMax   *float64
}

// Filter is the canonical catalog predicate. The zero Filter matches every
// game; each populated dimension narrows the result and dimensions combine
// with AND. This match-all contract is relied on by every caller.
type Filter struct {
	// Title is a literal substring, matched case-insensitively. Never a
	// pattern: LIKE wildcards are escaped when the predicate is compiled.
	Title string

	// Platforms holds canonical family slugs.
	Platforms []string

	Genres []string

	// Years is an exact release-year membership set. When non-empty it takes
	// precedence over YearMin/YearMax.
	Years []int

	// Inclusive release-year bounds; nil means unbounded on that side.
	YearMin *int
	YearMax *int
}

// Build normalizes raw input into a canonical Filter.
func Build(in Input) Filter {
	f := Filter{
		Title:     strings.TrimSpace(in.Q),
		Platforms: normalizePlatforms(in.Platforms),
		Genres:    dedupe(in.Genres),
	}

	if len(in.Years) > 0 {
		f.Years = in.Years
		return f
	}

	if y, ok := finiteYear(in.YearMin); ok {
		f.YearMin = &y
	}
	if y, ok := finiteYear(in.YearMax); ok {
		f.YearMax = &y
	}
	return f
}

// BuildTitle handles the legacy bare-title-string form of the filter.
func BuildTitle(titleQuery string) Filter {
	return Build(Input{Q: titleQuery})
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f.Title == "" && len(f.Platforms) == 0 && len(f.Genres) == 0 &&
		len(f.Years) == 0 && f.YearMin == nil && f.YearMax == nil
}

// Scope compiles the filter into a GORM scope over the games table.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Title != "" {
			pattern := "%" + escapeLike(strings.ToLower(f.Title)) + "%"
			q = q.Where(`LOWER(games.title) LIKE ? ESCAPE '\'`, pattern)
		}

		if len(f.Platforms) > 0 {
			sub := q.Session(&gorm.Session{NewDB: true}).
				Table("game_platforms").
				Select("game_platforms.game_id").
				Joins("JOIN platforms ON platforms.id = game_platforms.platform_id").
				Where("platforms.slug IN ?", f.Platforms)
			q = q.Where("games.id IN (?)", sub)
		}

		if len(f.Genres) > 0 {
			sub := q.Session(&gorm.Session{NewDB: true}).
				Table("game_genres").
				Select("game_genres.game_id").
				Joins("JOIN genres ON genres.id = game_genres.genre_id").
				Where("genres.name IN ?", f.Genres)
			q = q.Where("games.id IN (?)", sub)
		}

		switch {
		case len(f.Years) > 0:
			conds := make([]string, 0, len(f.Years))
			args := make([]interface{}, 0, 2*len(f.Years))
			for _, y := range f.Years {
				conds = append(conds, "(games.release_date >= ? AND games.release_date < ?)")
				args = append(args, yearStart(y), yearStart(y+1))
			}
			q = q.Where(strings.Join(conds, " OR "), args...)
		default:
			if f.YearMin != nil {
				q = q.Where("games.release_date >= ?", yearStart(*f.YearMin))
			}
			if f.YearMax != nil {
				// Inclusive year bound: anything before Jan 1 of the next year.
				q = q.Where("games.release_date < ?", yearStart(*f.YearMax+1))
			}
		}

		return q
	}
}

// escapeLike makes user input safe to embed in a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func finiteYear(v *float64) (int, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return int(math.Trunc(*v)), true
}

func normalizePlatforms(raw []string) []string {
	mapped := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if fam, ok := platformFamilies[s]; ok {
			s = fam
		}
		mapped = append(mapped, s)
	}
	return dedupe(mapped)
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
