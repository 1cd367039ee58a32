package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tanawatq/vaccine_reservation/internal/handlers"
	authmw "github.com/tanawatq/vaccine_reservation/internal/middleware/auth"
	"github.com/tanawatq/vaccine_reservation/internal/models"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/token"
)

func newTestServer(t *testing.T) *echo.Echo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Reservation{}))

	tokens, err := token.New("test_secret", "HS256", 15)
	require.NoError(t, err)

	gormRepo := &repo.GormRepo{DB: db}
	deps := &Deps{
		UserHandler:        &handlers.UserHandler{Repo: gormRepo},
		AuthHandler:        &handlers.AuthHandler{Repo: gormRepo, Tokens: tokens},
		ReservationHandler: &handlers.ReservationHandler{Repo: gormRepo, Index: "reservation"},
		SearchHandler:      &handlers.SearchHandler{Index: "reservation"},
		Auth:               &authmw.Middleware{Repo: gormRepo, Tokens: tokens},
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	Register(e, deps)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func registerAndLogin(t *testing.T, e *echo.Echo) string {
	rec := do(e, jsonRequest(http.MethodPost, "/user/", `{
		"name": "foo", "surname": "rock", "citizen_id": "1152347583215",
		"birth_date": "2021-10-12", "occupation": "doctor",
		"address": "1145 bangkok", "password": "strong_password"
	}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	form := url.Values{}
	form.Set("username", "1152347583215")
	form.Set("password", "strong_password")
	loginReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	loginReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	loginRec := do(e, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp["token_type"])
	return resp["access_token"]
}

func TestRegisterLoginCreateFlow(t *testing.T) {
	e := newTestServer(t)
	accessToken := registerAndLogin(t, e)

	req := jsonRequest(http.MethodPost, "/reservation/", `{"register_timestamp": "2021-10-12T22:01:14.760Z"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := do(e, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	getRec := do(e, httptest.NewRequest(http.MethodGet, "/reservation/1", nil))
	require.Equal(t, http.StatusOK, getRec.Code)
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, jsonRequest(http.MethodPost, "/reservation/", `{"register_timestamp": "2021-10-12T22:01:14.760Z"}`))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Could not validate credentials", body["detail"])
}

func TestDateRouteCoexistsWithIDRoute(t *testing.T) {
	e := newTestServer(t)
	accessToken := registerAndLogin(t, e)

	for _, timestamp := range []string{"2021-10-12T22:01:14.760Z", "2021-10-13T22:02:14.760Z"} {
		req := jsonRequest(http.MethodPost, "/reservation/", `{"register_timestamp": "`+timestamp+`"}`)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
		require.Equal(t, http.StatusCreated, do(e, req).Code)
	}

	onDate := do(e, httptest.NewRequest(http.MethodGet, "/reservation/2021/10/12", nil))
	require.Equal(t, http.StatusOK, onDate.Code)

	var reservations []map[string]interface{}
	require.NoError(t, json.Unmarshal(onDate.Body.Bytes(), &reservations))
	require.Len(t, reservations, 1)

	byID := do(e, httptest.NewRequest(http.MethodGet, "/reservation/2", nil))
	require.Equal(t, http.StatusOK, byID.Code)
}

func TestInvalidDateDetailBody(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/reservation/2021/13/12", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Invalid format date", body["detail"])
}

func TestReportTakenRouteIsPublic(t *testing.T) {
	e := newTestServer(t)
	accessToken := registerAndLogin(t, e)

	req := jsonRequest(http.MethodPost, "/reservation/", `{"register_timestamp": "2021-10-12T22:01:14.760Z"}`)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	require.Equal(t, http.StatusCreated, do(e, req).Code)

	rec := do(e, httptest.NewRequest(http.MethodPut, "/reservation/report-taken/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["vaccinated"])
}
