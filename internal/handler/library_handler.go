package handler

import (
	"errors"
	"net/http"
	"time"

	"gameshelf/backend/internal/catalog"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

type AddToLibraryInput struct {
	UserID string `json:"userId" binding:"required"`
	GameID string `json:"gameId" binding:"required"`
	Status string `json:"status"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// LibraryEntryResponse is one library row with its game summary inlined.
type LibraryEntryResponse struct {
	ID        uuid.UUID           `json:"id"`
	GameID    uuid.UUID           `json:"gameId"`
	Status    models.GameStatus   `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Game      GameSummaryResponse `json:"game"`
}

func newLibraryEntryResponse(entry models.UserGame, completedCount int64) LibraryEntryResponse {
	return LibraryEntryResponse{
		ID:        entry.ID,
		GameID:    entry.GameID,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
		Game:      newGameSummaryResponse(catalog.AugmentedGame{Game: entry.Game, CompletedCount: completedCount}),
	}
}

// endregion

// AddToLibrary godoc
// @Summary      Add a game to a library
// @Description  Creates a library entry for a (user, game) pair. At most one entry per pair exists.
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        input body AddToLibraryInput true "Entry info; status defaults to owned"
// @Success      201 {object} LibraryEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid id or status"
// @Failure      404 {object} ErrorResponse "User or game not found"
// @Failure      409 {object} ErrorResponse "Game already in library"
// @Failure      500 {object} ErrorResponse
// @Router       /library [post]
func AddToLibrary(c *gin.Context) {
	var input AddToLibraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.BadInput(err.Error()))
		return
	}

	if input.Status == "" {
		input.Status = string(models.StatusOwned)
	}
	status, ok := models.ParseGameStatus(input.Status)
	if !ok {
		respondError(c, apperrors.BadInput("Invalid status"))
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid user Id"))
		return
	}
	gameID, err := uuid.Parse(input.GameID)
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid game Id"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("User"))
			return
		}
		respondError(c, apperrors.Internal("Error looking up user", err))
		return
	}

	var game models.Game
	if err := db.WithContext(ctx).First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("Game"))
			return
		}
		respondError(c, apperrors.Internal("Error looking up game", err))
		return
	}

	entry := models.UserGame{UserID: userID, GameID: gameID, Status: status}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.Conflict("Game already in library"))
			return
		}
		respondError(c, apperrors.Internal("Error adding to library", err))
		return
	}

	entry.Game = game
	counts, err := catalog.CompletedCounts(ctx, db, []uuid.UUID{gameID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLibraryEntryResponse(entry, counts[gameID]))
}

// ListLibrary godoc
// @Summary      List a user's library
// @Description  Returns every library entry for the given user with game summaries attached via one batched read.
// @Tags         library
// @Produce      json
// @Param        userId query string true "User ID (uuid)"
// @Success      200 {array} LibraryEntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse
// @Router       /library [get]
func ListLibrary(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		respondError(c, apperrors.BadInput("userId is required"))
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid user Id"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("User"))
			return
		}
		respondError(c, apperrors.Internal("Error looking up user", err))
		return
	}

	// Preload issues a single IN query over the collected game ids, so the
	// whole list costs two reads however long it is.
	var entries []models.UserGame
	err = db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Game").
		Preload("Game.Platforms").
		Preload("Game.Genres").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		respondError(c, apperrors.Internal("Error listing library", err))
		return
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.GameID
	}
	counts, err := catalog.CompletedCounts(ctx, db, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LibraryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newLibraryEntryResponse(entry, counts[entry.GameID]))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateLibraryStatus godoc
// @Summary      Change a library entry's status
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        userGameId path string true "Library entry ID (uuid)"
// @Param        input body UpdateStatusInput true "New status"
// @Success      200 {object} LibraryEntryResponse
// @Failure      400 {object} ErrorResponse "Invalid id or status"
// @Failure      404 {object} ErrorResponse "Library entry not found"
// @Failure      500 {object} ErrorResponse
// @Router       /library/{userGameId} [patch]
func UpdateLibraryStatus(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("userGameId"))
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid userGame Id"))
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.BadInput(err.Error()))
		return
	}
	status, ok := models.ParseGameStatus(input.Status)
	if !ok {
		respondError(c, apperrors.BadInput("Invalid status"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var entry models.UserGame
	if err := db.WithContext(ctx).Preload("Game").First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("Library entry"))
			return
		}
		respondError(c, apperrors.Internal("Error looking up library entry", err))
		return
	}

	if err := db.WithContext(ctx).Model(&entry).Update("status", status).Error; err != nil {
		respondError(c, apperrors.Internal("Error updating library entry", err))
		return
	}

	counts, err := catalog.CompletedCounts(ctx, db, []uuid.UUID{entry.GameID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLibraryEntryResponse(entry, counts[entry.GameID]))
}

// RemoveFromLibrary godoc
// @Summary      Remove a library entry
// @Tags         library
// @Produce      json
// @Param        userGameId path string true "Library entry ID (uuid)"
// @Success      204 "Removed"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Library entry not found"
// @Failure      500 {object} ErrorResponse
// @Router       /library/{userGameId} [delete]
func RemoveFromLibrary(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("userGameId"))
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid userGame Id"))
		return
	}

	result := database.DB.WithContext(c.Request.Context()).Delete(&models.UserGame{}, "id = ?", entryID)
	if result.Error != nil {
		respondError(c, apperrors.Internal("Error removing library entry", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, apperrors.NotFound("Library entry"))
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearMyLibrary godoc
// @Summary      Clear the caller's library
// @Description  Deletes every library entry belonging to the authenticated user.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int64 "{"deleted": 3}"
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users/me/library [delete]
func ClearMyLibrary(c *gin.Context) {
	v, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	userID := v.(uuid.UUID)

	result := database.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Delete(&models.UserGame{})
	if result.Error != nil {
		respondError(c, apperrors.Internal("Error clearing library", result.Error))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected})
}
