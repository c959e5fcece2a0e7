package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"readmates/backend/internal/auth"
	"readmates/backend/internal/config"
	"readmates/backend/internal/database"
	"readmates/backend/internal/events"
	"readmates/backend/internal/hub"
	"readmates/backend/internal/models"
	"readmates/backend/internal/notification"
	"readmates/backend/internal/shelf"
	"readmates/backend/internal/social"
	"readmates/backend/internal/stats"
	"readmates/backend/internal/testdb"
	"readmates/backend/pkg/jwt"
)

func newProfileRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db := testdb.New(t)
	database.DB = db

	logger := logrus.New()
	bus := events.NewBus()
	liveHub := hub.NewHub()

	shelfService := shelf.NewService(db, bus, logger)
	shelfService.Register(bus)
	engine := stats.NewEngine(db, logger)
	engine.Register(bus)
	dispatcher := notification.NewDispatcher(db, liveHub, logger)
	dispatcher.Register(bus)
	Init(bus, liveHub, social.NewService(db, bus, logger), shelfService, engine, dispatcher, logger)

	router := gin.New()
	router.GET("/api/v1/users/:id", auth.OptionalAuthMiddleware(), GetUserProfile)
	return router, db
}

func createProfileUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := models.User{
		Nickname:     nickname,
		Email:        fmt.Sprintf("%s@example.com", nickname),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func getProfile(t *testing.T, router *gin.Engine, userID uint, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", userID), nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetUserProfileAnonymous(t *testing.T) {
	router, db := newProfileRouter(t)
	bob := createProfileUser(t, db, "bob")

	code, body := getProfile(t, router, bob.ID, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "bob", body["nickname"])

	// Relationship flags only exist for authenticated viewers.
	require.NotContains(t, body, "is_friend")
	require.NotContains(t, body, "is_following")
}

func TestGetUserProfileShowsViewerRelationship(t *testing.T) {
	router, db := newProfileRouter(t)
	alice := createProfileUser(t, db, "alice")
	bob := createProfileUser(t, db, "bob")

	_, err := Social.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	token, err := jwt.GenerateToken(alice.ID)
	require.NoError(t, err)

	code, body := getProfile(t, router, bob.ID, token)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["is_following"])
	require.Equal(t, false, body["is_friend"])
	require.EqualValues(t, 1, body["followers_count"])
}

func TestGetUserProfileInvalidTokenFallsBackToAnonymous(t *testing.T) {
	router, db := newProfileRouter(t)
	bob := createProfileUser(t, db, "bob")

	code, body := getProfile(t, router, bob.ID, "not-a-token")
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, body, "is_following")
}

func TestGetUserProfileUnknownUser(t *testing.T) {
	router, _ := newProfileRouter(t)

	code, _ := getProfile(t, router, 99999, "")
	require.Equal(t, http.StatusNotFound, code)
}
