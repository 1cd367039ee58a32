package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tanawatq/vaccine_reservation/internal/hash"
	"github.com/tanawatq/vaccine_reservation/internal/models"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/token"
)

const testPassword = "strong_password"

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Reservation{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) (*echo.Echo, *repo.GormRepo, *token.Service) {
	db := initTestDB(t)

	tokens, err := token.New("test_secret", "HS256", 15)
	require.NoError(t, err)

	return echo.New(), &repo.GormRepo{DB: db}, tokens
}

func jsonContext(e *echo.Echo, method, target string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func createTestUser(t *testing.T, r *repo.GormRepo, citizenID string) *models.User {
	pwHash, err := hash.HashPassword(testPassword)
	require.NoError(t, err)

	user := &models.User{
		Name:         "foo",
		Surname:      "rock",
		CitizenID:    citizenID,
		BirthDate:    time.Date(2021, 10, 12, 0, 0, 0, 0, time.UTC),
		Occupation:   "doctor",
		Address:      "1145 bangkok",
		PasswordHash: pwHash,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func requireHTTPError(t *testing.T, err error, code int, detail string) {
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	require.Equal(t, detail, he.Message)
}
