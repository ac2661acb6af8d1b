package main

import (
	"fmt"
	"log"
	"net/http"

	"gameshelf/backend/internal/auth"
	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gameshelf/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Gameshelf API
// @version         1.0
// @description     Catalog browsing, per-user libraries and community analytics for a game-library tracker.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API routes. Identity is optional everywhere; handlers that need it
	// check for it themselves.
	api := router.Group("/api")
	api.Use(auth.OptionalAuthMiddleware())
	{
		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/facets", handler.GetGameFacets)
			gameRoutes.GET("/top-rated", handler.GetTopRatedGames)
			gameRoutes.GET("/latest", handler.GetLatestReleases)
			gameRoutes.GET("/:idOrSlug", handler.GetGameDetail) // Must be after the fixed paths
		}

		api.GET("/community/dashboard", handler.GetCommunityDashboard)

		libraryRoutes := api.Group("/library")
		libraryRoutes.Use(auth.APIKeyMiddleware())
		{
			libraryRoutes.POST("", handler.AddToLibrary)
			libraryRoutes.GET("", handler.ListLibrary)
			libraryRoutes.PATCH("/:userGameId", handler.UpdateLibraryStatus)
			libraryRoutes.DELETE("/:userGameId", handler.RemoveFromLibrary)
		}

		userRoutes := api.Group("/users")
		{
			userRoutes.GET("", handler.GetUsers)
			userRoutes.POST("", handler.CreateUser)
			userRoutes.POST("/anonymous", handler.PostAnonymousUser)
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PATCH("/me", handler.PatchMe)
			userRoutes.DELETE("/me/library", handler.ClearMyLibrary)
			userRoutes.GET("/:id", handler.GetUserByID)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost" + addr + "/swagger/index.html")
	log.Fatal(router.Run(addr))
}
