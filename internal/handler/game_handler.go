package handler

import (
	"net/http"
	"strconv"
	"time"

	"gameshelf/backend/internal/catalog"
	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

// GameSummaryResponse is one catalog item in a list view, including its
// community completion count.
type GameSummaryResponse struct {
	ID                uuid.UUID          `json:"id"`
	RawgID            int64              `json:"rawgId"`
	Slug              *string            `json:"slug"`
	Title             string             `json:"title"`
	ReleaseDate       *time.Time         `json:"releaseDate"`
	AvgCompletionTime float64            `json:"avgCompletionTime"`
	ImageURL          *string            `json:"imageUrl"`
	ParentPlatforms   []string           `json:"parentPlatforms"`
	Genres            []string           `json:"genres"`
	Metacritic        *models.Metacritic `json:"metacritic"`
	CompletedCount    int64              `json:"completedCount"`
}

func newGameSummaryResponse(g catalog.AugmentedGame) GameSummaryResponse {
	resp := GameSummaryResponse{
		ID:                g.ID,
		RawgID:            g.RawgID,
		Slug:              g.Slug,
		Title:             g.Title,
		ReleaseDate:       g.ReleaseDate,
		AvgCompletionTime: g.AvgCompletionTime,
		ImageURL:          g.ImageURL,
		ParentPlatforms:   []string{},
		Genres:            []string{},
		CompletedCount:    g.CompletedCount,
	}
	for _, p := range g.Platforms {
		if p != nil {
			resp.ParentPlatforms = append(resp.ParentPlatforms, p.Slug)
		}
	}
	for _, genre := range g.Genres {
		if genre != nil {
			resp.Genres = append(resp.Genres, genre.Name)
		}
	}
	if g.Metacritic.Score != nil {
		m := g.Metacritic
		resp.Metacritic = &m
	}
	return resp
}

// endregion

// region --- Handlers ---

// GetGames godoc
// @Summary      Browse the catalog
// @Description  Retrieves games filtered by title, platforms, genres and release years. Returns a bare array when no paging parameter is supplied (legacy contract) and a paged envelope otherwise.
// @Tags         games
// @Produce      json
// @Param        q         query  string  false  "Title substring (matched literally)"
// @Param        titleQuery query string  false  "Legacy alias for q"
// @Param        platforms query  string  false  "Comma-separated platform families"
// @Param        genres    query  string  false  "Comma-separated genre names"
// @Param        years     query  string  false  "Comma-separated exact release years"
// @Param        yearMin   query  int     false  "Inclusive lower release-year bound"
// @Param        yearMax   query  int     false  "Inclusive upper release-year bound"
// @Param        sort      query  string  false  "Sort key" default(metacritic-desc)
// @Param        page      query  int     false  "Page number" default(1)
// @Param        pageSize  query  int     false  "Items per page" default(24)
// @Success      200 {object} catalog.PageResult[GameSummaryResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	titleQuery := c.Query("titleQuery")
	if q := c.Query("q"); q != "" {
		titleQuery = q
	}

	input := catalog.Input{
		Q:         titleQuery,
		Platforms: splitCommaSeparated(c.Query("platforms")),
		Genres:    splitCommaSeparated(c.Query("genres")),
		Years:     parseIntCSV(c.Query("years")),
		YearMin:   parseFiniteFloat(c, "yearMin"),
		YearMax:   parseFiniteFloat(c, "yearMax"),
	}
	filter := catalog.Build(input)

	_, hasPage := c.GetQuery("page")
	_, hasPageSize := c.GetQuery("pageSize")
	hasPaging := hasPage || hasPageSize

	cfg := config.AppConfig
	page := catalog.ClampPage(c.Query("page"))
	pageSize := catalog.ClampPageSize(c.Query("pageSize"), cfg.BrowsePageSize, cfg.BrowsePageSizeMax)

	order := catalog.SortOrder(c.Query("sort"))

	result, err := catalog.FetchPage(c.Request.Context(), database.DB, filter.Scope(), order, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := augmentSummaries(c, result.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	if !hasPaging {
		c.JSON(http.StatusOK, items) // legacy response
		return
	}

	c.JSON(http.StatusOK, catalog.PageResult[GameSummaryResponse]{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// GetTopRatedGames godoc
// @Summary      Top rated games
// @Description  Best-scored games, highest first. Unscored games are excluded.
// @Tags         games
// @Produce      json
// @Param        limit    query  int  false  "Items to return" default(5)
// @Param        page     query  int  false  "Page number"
// @Param        pageSize query  int  false  "Items per page"
// @Success      200 {array} GameSummaryResponse
// @Failure      500 {object} ErrorResponse
// @Router       /games/top-rated [get]
func GetTopRatedGames(c *gin.Context) {
	serveSpecialtyList(c, catalog.TopRatedScope(), catalog.TopRatedOrder)
}

// GetLatestReleases godoc
// @Summary      Latest releases
// @Description  Most recently released games. TBA, future-dated and desktop/web-only titles are excluded.
// @Tags         games
// @Produce      json
// @Param        limit    query  int  false  "Items to return" default(5)
// @Param        page     query  int  false  "Page number"
// @Param        pageSize query  int  false  "Items per page"
// @Success      200 {array} GameSummaryResponse
// @Failure      500 {object} ErrorResponse
// @Router       /games/latest [get]
func GetLatestReleases(c *gin.Context) {
	excluded := config.AppConfig.ExcludedPlatformSlugs()
	serveSpecialtyList(c, catalog.LatestScope(time.Now().UTC(), excluded), catalog.LatestOrder)
}

// serveSpecialtyList runs the shared paginator over a fixed scope with the
// specialty defaults (5, capped at 24) and the same dual-mode contract as the
// browse list. The bare `limit` form is the legacy contract.
func serveSpecialtyList(c *gin.Context, scope func(*gorm.DB) *gorm.DB, order string) {
	_, hasPage := c.GetQuery("page")
	_, hasPageSize := c.GetQuery("pageSize")
	hasPaging := hasPage || hasPageSize

	cfg := config.AppConfig
	page := catalog.ClampPage(c.Query("page"))
	rawSize := c.Query("pageSize")
	if rawSize == "" {
		rawSize = c.Query("limit")
	}
	pageSize := catalog.ClampPageSize(rawSize, cfg.ListPageSize, cfg.ListPageSizeMax)

	result, err := catalog.FetchPage(c.Request.Context(), database.DB, scope, order, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := augmentSummaries(c, result.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	if !hasPaging {
		c.JSON(http.StatusOK, items)
		return
	}

	c.JSON(http.StatusOK, catalog.PageResult[GameSummaryResponse]{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// GetGameDetail godoc
// @Summary      Game detail
// @Description  Retrieves a game by opaque identifier or slug, merged with its completion count and, for an identified caller, that caller's own library entry.
// @Tags         games
// @Produce      json
// @Param        idOrSlug path   string true  "Game ID (uuid) or slug"
// @Param        userId   query  string false "Requesting user ID (uuid); the bearer token takes precedence"
// @Success      200 {object} catalog.GameDetail
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      500 {object} ErrorResponse
// @Router       /games/{idOrSlug} [get]
func GetGameDetail(c *gin.Context) {
	var userID *uuid.UUID
	if v, ok := c.Get("userID"); ok {
		id := v.(uuid.UUID)
		userID = &id
	} else if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.BadInput("Invalid user Id"))
			return
		}
		userID = &id
	}

	detail, err := catalog.GetDetail(c.Request.Context(), database.DB, c.Param("idOrSlug"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetGameFacets godoc
// @Summary      Catalog facets
// @Description  Platform and genre counts plus the release-year bounds of the catalog.
// @Tags         games
// @Produce      json
// @Success      200 {object} catalog.Facets
// @Failure      500 {object} ErrorResponse
// @Router       /games/facets [get]
func GetGameFacets(c *gin.Context) {
	facets, err := catalog.GetFacets(c.Request.Context(), database.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// endregion

func augmentSummaries(c *gin.Context, games []models.Game) ([]GameSummaryResponse, error) {
	augmented, err := catalog.AugmentGames(c.Request.Context(), database.DB, games)
	if err != nil {
		return nil, err
	}
	items := make([]GameSummaryResponse, 0, len(augmented))
	for _, g := range augmented {
		items = append(items, newGameSummaryResponse(g))
	}
	return items, nil
}

func parseIntCSV(s string) []int {
	var out []int
	for _, tok := range splitCommaSeparated(s) {
		if n, err := strconv.Atoi(tok); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// parseFiniteFloat reads an optional numeric query parameter. Absent or
// unparseable values yield nil; infinities are caught later by the filter
// builder's finite check.
func parseFiniteFloat(c *gin.Context, name string) *float64 {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
