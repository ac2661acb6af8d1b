package handler

import (
	"net/http"
	"testing"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/testutil"
	"gameshelf/backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "player1", Email: "player1@example.com"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	user := decodeBody[UserResponse](t, w)
	require.NotNil(t, user.Username)
	assert.Equal(t, "player1", *user.Username)
	assert.Equal(t, models.RoleRegistered, user.Role)
	assert.Zero(t, user.GameCount)
}

func TestCreateUser_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "player1"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "player1", Email: "not an email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUser_DuplicateUsernameIgnoresCase(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "Player1", Email: "a@example.com"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "player1", Email: "b@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/users",
		CreateUserInput{Username: "player2", Email: "a@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPostAnonymousUser_GetOrCreate(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/users/anonymous",
		AnonymousUserInput{DeviceID: "device-123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	first := decodeBody[struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}](t, w)
	require.NotEmpty(t, first.Token)
	assert.Equal(t, models.RoleAnonymous, first.User.Role)

	// Same device logs back into the same identity.
	w = doRequest(t, router, http.MethodPost, "/api/users/anonymous",
		AnonymousUserInput{DeviceID: "device-123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody[struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}](t, w)
	assert.Equal(t, first.User.ID, second.User.ID)

	// The issued token works against /users/me.
	w = doRequest(t, router, http.MethodGet, "/api/users/me", nil, bearer(second.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.User.ID, decodeBody[UserResponse](t, w).ID)
}

func TestPostAnonymousUser_RequiresDeviceID(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/users/anonymous",
		map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUsers_IncludesLibrarySizes(t *testing.T) {
	router, db := setupRouter(t)
	u1 := testutil.CreateUser(t, db)
	testutil.CreateUser(t, db)
	g1 := testutil.CreateGame(t, db, "First")
	g2 := testutil.CreateGame(t, db, "Second")
	testutil.CreateEntry(t, db, u1.ID, g1.ID, models.StatusOwned)
	testutil.CreateEntry(t, db, u1.ID, g2.ID, models.StatusCompleted)

	w := doRequest(t, router, http.MethodGet, "/api/users", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody[[]UserResponse](t, w)
	require.Len(t, users, 2)
	counts := map[string]int64{}
	for _, u := range users {
		counts[u.ID.String()] = u.GameCount
	}
	assert.Equal(t, int64(2), counts[u1.ID.String()])
}

func TestGetUserByID(t *testing.T) {
	router, db := setupRouter(t)
	user := testutil.CreateUser(t, db)
	game := testutil.CreateGame(t, db, "Only")
	testutil.CreateEntry(t, db, user.ID, game.ID, models.StatusOwned)

	w := doRequest(t, router, http.MethodGet, "/api/users/"+user.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[UserResponse](t, w)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, int64(1), got.GameCount)

	w = doRequest(t, router, http.MethodGet, "/api/users/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMe_RequiresToken(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A garbage token is ignored by the optional middleware, which leaves the
	// caller unidentified.
	w = doRequest(t, router, http.MethodGet, "/api/users/me", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPatchMe(t *testing.T) {
	router, db := setupRouter(t)
	user := testutil.CreateUser(t, db)
	token, err := jwt.GenerateToken(user.ID)
	require.NoError(t, err)

	w := doRequest(t, router, http.MethodPatch, "/api/users/me",
		UpdateMeInput{Username: "new-name"}, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[UserResponse](t, w)
	require.NotNil(t, got.Username)
	assert.Equal(t, "new-name", *got.Username)
}

func TestPatchMe_UsernameTaken(t *testing.T) {
	router, db := setupRouter(t)

	taken := "Taken"
	email := "taken@example.com"
	require.NoError(t, db.Create(&models.User{
		Username: &taken,
		Email:    &email,
		Role:     models.RoleRegistered,
	}).Error)

	user := testutil.CreateUser(t, db)
	token, err := jwt.GenerateToken(user.ID)
	require.NoError(t, err)

	w := doRequest(t, router, http.MethodPatch, "/api/users/me",
		UpdateMeInput{Username: "taken"}, bearer(token))
	assert.Equal(t, http.StatusConflict, w.Code)
}
