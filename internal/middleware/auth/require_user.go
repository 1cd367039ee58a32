package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/logging"
	"github.com/tanawatq/vaccine_reservation/internal/models"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/token"
)

// UserContextKey is where the middleware stores the resolved user.
const UserContextKey = "currentUser"

const bearerPrefix = "Bearer "

type Middleware struct {
	Repo   *repo.GormRepo
	Tokens *token.Service
}

// RequireUser resolves the bearer token to a persisted user on every
// request. There is no caching: a user deleted after token issuance is
// rejected here.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_user")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return unauthorized(c)
		}

		subject, err := m.Tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token")
			return unauthorized(c)
		}

		user, err := m.Repo.GetUserByCitizenID(ctx, subject)
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				l.Warn("auth_failed", "status", 401, "reason", "user no longer exists")
				return unauthorized(c)
			}
			return err
		}

		c.Set(UserContextKey, user)
		return next(c)
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
}

// CurrentUser returns the user resolved by RequireUser, or nil when the
// route is not behind the middleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}
