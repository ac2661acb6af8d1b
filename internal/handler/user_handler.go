package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/pkg/apperrors"
	"gameshelf/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

type CreateUserInput struct {
	Username string `json:"username" binding:"required" example:"player1"`
	Email    string `json:"email" binding:"required" example:"player1@example.com"`
}

type AnonymousUserInput struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

type UpdateMeInput struct {
	Username string `json:"username" binding:"required"`
}

// UserResponse is the caller-safe view of a user.
type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   *string     `json:"username"`
	Email      *string     `json:"email"`
	Role       models.Role `json:"role"`
	LastSeenAt time.Time   `json:"lastSeenAt"`
	CreatedAt  time.Time   `json:"createdAt"`
	GameCount  int64       `json:"gameCount"`
}

func newUserResponse(user models.User, gameCount int64) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		LastSeenAt: user.LastSeenAt,
		CreatedAt:  user.CreatedAt,
		GameCount:  gameCount,
	}
}

// endregion

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateUser godoc
// @Summary      Create a registered user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserInput true "User info"
// @Success      201 {object} UserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Username or email taken"
// @Failure      500 {object} ErrorResponse
// @Router       /users [post]
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.BadInput("Missing required fields"))
		return
	}
	if !emailPattern.MatchString(input.Email) {
		respondError(c, apperrors.BadInput("Invalid email address"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", input.Email).Count(&count).Error; err != nil {
		respondError(c, apperrors.Internal("Error checking email", err))
		return
	}
	if count > 0 {
		respondError(c, apperrors.Conflict("email already exists on an existing user"))
		return
	}

	// Username uniqueness is case-insensitive on top of the raw unique index.
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", input.Username).Count(&count).Error; err != nil {
		respondError(c, apperrors.Internal("Error checking username", err))
		return
	}
	if count > 0 {
		respondError(c, apperrors.Conflict("username already exists on an existing user"))
		return
	}

	user := models.User{
		Username:   &input.Username,
		Email:      &input.Email,
		Role:       models.RoleRegistered,
		LastSeenAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.Conflict("username or email already taken"))
			return
		}
		respondError(c, apperrors.Internal("Error creating user", err))
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user, 0))
}

// PostAnonymousUser godoc
// @Summary      Log in anonymously by device
// @Description  Gets or creates the anonymous identity for a device and returns a bearer token for it.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body AnonymousUserInput true "Device info"
// @Success      200 {object} map[string]interface{} "{"user": {...}, "token": "..."}"
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users/anonymous [post]
func PostAnonymousUser(c *gin.Context) {
	var input AnonymousUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.BadInput("deviceId is required"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var user models.User
	err := db.WithContext(ctx).Where("device_id = ?", input.DeviceID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			DeviceID:   &input.DeviceID,
			Role:       models.RoleAnonymous,
			LastSeenAt: time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			respondError(c, apperrors.Internal("Error creating anonymous user", err))
			return
		}
	case err != nil:
		respondError(c, apperrors.Internal("Error looking up device", err))
		return
	default:
		if err := db.WithContext(ctx).Model(&user).Update("last_seen_at", time.Now().UTC()).Error; err != nil {
			respondError(c, apperrors.Internal("Error updating last seen", err))
			return
		}
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		respondError(c, apperrors.Internal("Error generating token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user, 0), "token": token})
}

// GetUsers godoc
// @Summary      List users
// @Description  Lists users with their library sizes, computed by one grouped query over the whole association table.
// @Tags         users
// @Produce      json
// @Success      200 {array} UserResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users [get]
func GetUsers(c *gin.Context) {
	ctx := c.Request.Context()
	db := database.DB

	var users []models.User
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		respondError(c, apperrors.Internal("Error fetching users", err))
		return
	}

	counts, err := libraryCounts(c, users)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, newUserResponse(user, counts[user.ID]))
	}
	c.JSON(http.StatusOK, response)
}

// libraryCounts groups the association table once for the given users; absent
// users read as 0. Same grouping technique as the completion aggregator.
func libraryCounts(c *gin.Context, users []models.User) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(users))
	if len(users) == 0 {
		return counts, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var rows []struct {
		UserID uuid.UUID
		Count  int64
	}
	err := database.DB.WithContext(c.Request.Context()).
		Model(&models.UserGame{}).
		Select("user_id, COUNT(*) AS count").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("Error counting libraries", err)
	}
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}

// GetUserByID godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID (uuid)"
// @Success      200 {object} UserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.BadInput("Invalid user Id"))
		return
	}

	user, count, err := fetchUserWithCount(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, count))
}

// GetMe godoc
// @Summary      Get the caller's own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	v, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, count, err := fetchUserWithCount(c, v.(uuid.UUID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, count))
}

// PatchMe godoc
// @Summary      Update the caller's username
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateMeInput true "New username"
// @Success      200 {object} UserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Username taken"
// @Failure      500 {object} ErrorResponse
// @Router       /users/me [patch]
func PatchMe(c *gin.Context) {
	v, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	userID := v.(uuid.UUID)

	var input UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.BadInput("username is required"))
		return
	}

	ctx := c.Request.Context()
	db := database.DB

	var count int64
	err := db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", input.Username, userID).
		Count(&count).Error
	if err != nil {
		respondError(c, apperrors.Internal("Error checking username", err))
		return
	}
	if count > 0 {
		respondError(c, apperrors.Conflict("username already taken"))
		return
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("User"))
			return
		}
		respondError(c, apperrors.Internal("Error looking up user", err))
		return
	}

	if err := db.WithContext(ctx).Model(&user).Update("username", input.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.Conflict("username already taken"))
			return
		}
		respondError(c, apperrors.Internal("Error updating username", err))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user, 0))
}

func fetchUserWithCount(c *gin.Context, userID uuid.UUID) (*models.User, int64, error) {
	ctx := c.Request.Context()
	db := database.DB

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("User")
		}
		return nil, 0, apperrors.Internal("Error looking up user", err)
	}

	var count int64
	err := db.WithContext(ctx).Model(&models.UserGame{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return nil, 0, apperrors.Internal("Error counting library", err)
	}
	return &user, count, nil
}
