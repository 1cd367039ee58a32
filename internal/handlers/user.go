package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/hash"
	"github.com/tanawatq/vaccine_reservation/internal/logging"
	"github.com/tanawatq/vaccine_reservation/internal/models"
	"github.com/tanawatq/vaccine_reservation/internal/mykafka"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
)

type UserHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// validateCitizenID enforces the 13-digit format. The digit check runs
// first so a non-numeric id of any length reports the digit rule; an
// empty id is not a digit either.
func validateCitizenID(citizenID string) error {
	if citizenID == "" {
		return errors.New("citizen id must be a digit")
	}
	for _, r := range citizenID {
		if !unicode.IsDigit(r) {
			return errors.New("citizen id must be a digit")
		}
	}
	if len(citizenID) != 13 {
		return errors.New("citizen id must have 13 digits")
	}
	return nil
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_register")

	var req struct {
		Name       string `json:"name"`
		Surname    string `json:"surname"`
		CitizenID  string `json:"citizen_id"`
		BirthDate  string `json:"birth_date"`
		Occupation string `json:"occupation"`
		Address    string `json:"address"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := validateCitizenID(req.CitizenID); err != nil {
		l.Warn("register_error", "status", 422, "reason", err.Error())
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		l.Warn("register_error", "status", 422, "reason", "invalid birth date")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid format date")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		CitizenID:    req.CitizenID,
		BirthDate:    birthDate,
		Occupation:   req.Occupation,
		Address:      req.Address,
		PasswordHash: pwHash,
	}

	// A duplicate citizen id trips the unique constraint here and is
	// deliberately not translated into a client error.
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return err
	}

	publish(c, h.Producer, userEventsTopic, fmt.Sprint(user.UserID), map[string]interface{}{
		"type":       "user_registered",
		"user_id":    user.UserID,
		"citizen_id": user.CitizenID,
	})

	l.Info("user_registered", "user_id", user.UserID)
	return c.JSON(http.StatusCreated, newUserView(&user))
}

func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Repo.GetUserByCitizenID(ctx, c.Param("citizen_id"))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No user with this citizen id")
		}
		return err
	}

	return c.JSON(http.StatusOK, newUserView(user))
}
