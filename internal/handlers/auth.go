package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/hash"
	"github.com/tanawatq/vaccine_reservation/internal/logging"
	"github.com/tanawatq/vaccine_reservation/internal/mykafka"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/token"
)

type AuthHandler struct {
	Repo     *repo.GormRepo
	Tokens   *token.Service
	Producer *mykafka.Producer
}

// Login takes form-encoded username (a citizen id) and password and
// returns a bearer token. Failures stay 404, matching the rest of the
// user surface.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.Repo.GetUserByCitizenID(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "status", 404, "reason", "unknown citizen id")
			return echo.NewHTTPError(http.StatusNotFound, "No user with this citizen id")
		}
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 404, "reason", "wrong password")
		return echo.NewHTTPError(http.StatusNotFound, "Incorrect password")
	}

	accessToken, err := h.Tokens.Issue(user.CitizenID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return err
	}

	publish(c, h.Producer, userEventsTopic, fmt.Sprint(user.UserID), map[string]interface{}{
		"type":       "user_logged_in",
		"user_id":    user.UserID,
		"citizen_id": user.CitizenID,
	})

	l.Info("login_successful", "user_id", user.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}
