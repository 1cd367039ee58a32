package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/handlers"
	"github.com/tanawatq/vaccine_reservation/internal/middleware/auth"
)

type Deps struct {
	UserHandler        *handlers.UserHandler
	AuthHandler        *handlers.AuthHandler
	ReservationHandler *handlers.ReservationHandler
	SearchHandler      *handlers.SearchHandler
	Auth               *auth.Middleware
}

// DetailErrorHandler renders every error as {"detail": ...}.
func DetailErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "Internal Server Error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		detail = fmt.Sprint(he.Message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"detail": detail})
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = DetailErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	user := e.Group("/user")
	user.POST("", d.UserHandler.Register)
	user.GET("/:citizen_id", d.UserHandler.GetUser)

	e.POST("/login", d.AuthHandler.Login)

	reservation := e.Group("/reservation")

	reservation.GET("", d.ReservationHandler.GetAll)
	reservation.GET("/new", d.ReservationHandler.GetToday)
	reservation.GET("/search", d.SearchHandler.Search)
	reservation.GET("/:id", d.ReservationHandler.Get)
	reservation.GET("/:year/:month/:day", d.ReservationHandler.GetOnDate)
	reservation.PUT("/report-taken/:id", d.ReservationHandler.ReportTaken)

	reservation.POST("", d.ReservationHandler.Create, d.Auth.RequireUser)
	reservation.PUT("/:id", d.ReservationHandler.Update, d.Auth.RequireUser)
	reservation.DELETE("/:id", d.ReservationHandler.Delete, d.Auth.RequireUser)
}
