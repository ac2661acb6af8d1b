package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"gameshelf/backend/internal/auth"
	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupRouter wires the API routes exactly like the server binary does, on
// top of a fresh in-memory store. Handlers read the package-level config and
// DB handle, so both are swapped per test.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret:         "test-secret",
		BrowsePageSize:    24,
		BrowsePageSizeMax: 100,
		ListPageSize:      5,
		ListPageSizeMax:   24,
		ExcludedPlatforms: "pc,mac,web",
	}
	db := testutil.NewTestDB(t)
	database.DB = db

	router := gin.New()
	api := router.Group("/api")
	api.Use(auth.OptionalAuthMiddleware())
	{
		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", GetGames)
			gameRoutes.GET("/facets", GetGameFacets)
			gameRoutes.GET("/top-rated", GetTopRatedGames)
			gameRoutes.GET("/latest", GetLatestReleases)
			gameRoutes.GET("/:idOrSlug", GetGameDetail)
		}

		api.GET("/community/dashboard", GetCommunityDashboard)

		libraryRoutes := api.Group("/library")
		libraryRoutes.Use(auth.APIKeyMiddleware())
		{
			libraryRoutes.POST("", AddToLibrary)
			libraryRoutes.GET("", ListLibrary)
			libraryRoutes.PATCH("/:userGameId", UpdateLibraryStatus)
			libraryRoutes.DELETE("/:userGameId", RemoveFromLibrary)
		}

		userRoutes := api.Group("/users")
		{
			userRoutes.GET("", GetUsers)
			userRoutes.POST("", CreateUser)
			userRoutes.POST("/anonymous", PostAnonymousUser)
			userRoutes.GET("/me", GetMe)
			userRoutes.PATCH("/me", PatchMe)
			userRoutes.DELETE("/me/library", ClearMyLibrary)
			userRoutes.GET("/:id", GetUserByID)
		}
	}
	return router, db
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
