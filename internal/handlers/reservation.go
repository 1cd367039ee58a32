package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/logging"
	authmw "github.com/tanawatq/vaccine_reservation/internal/middleware/auth"
	"github.com/tanawatq/vaccine_reservation/internal/models"
	"github.com/tanawatq/vaccine_reservation/internal/mykafka"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/service/search"
)

type ReservationHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

// timestampLayouts accepts ISO-8601 with or without a zone offset;
// fractional seconds are optional in both.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, errors.New("Invalid format date")
}

// parseReservationID maps anything that is not a stored id, including
// negative, zero and non-numeric values, to a plain not-found.
func parseReservationID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, repo.ErrReservationNotFound
	}
	return id, nil
}

// dayWindow validates the calendar date and returns the [00:00, next day)
// UTC window. time.Date normalizes out-of-range components, so a
// round-trip mismatch means the date never existed.
func dayWindow(year, month, day int) (time.Time, time.Time, error) {
	start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || start.Year() != year || start.Month() != time.Month(month) || start.Day() != day {
		return time.Time{}, time.Time{}, errors.New("Invalid format date")
	}
	return start, start.AddDate(0, 0, 1), nil
}

func notFoundReservation() error {
	return echo.NewHTTPError(http.StatusNotFound, "No reservation with this id")
}

func (h *ReservationHandler) GetAll(c echo.Context) error {
	reservations, err := h.Repo.GetAllReservations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationViews(reservations))
}

func (h *ReservationHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_create")

	var req struct {
		RegisterTimestamp string `json:"register_timestamp"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	timestamp, err := parseTimestamp(req.RegisterTimestamp)
	if err != nil {
		l.Warn("create_error", "status", 422, "reason", "invalid timestamp", "value", req.RegisterTimestamp)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	owner := authmw.CurrentUser(c)
	reservation := models.Reservation{
		RegisterTimestamp: timestamp,
		UserID:            owner.UserID,
	}
	if err := h.Repo.CreateReservation(ctx, &reservation); err != nil {
		return err
	}

	publish(c, h.Producer, reservationEventsTopic, fmt.Sprint(reservation.ReservationID), map[string]interface{}{
		"type":           "reservation_created",
		"reservation_id": reservation.ReservationID,
		"user_id":        owner.UserID,
	})
	h.indexReservation(c, &reservation, owner)

	l.Info("reservation_created", "reservation_id", reservation.ReservationID)
	return c.JSON(http.StatusCreated, newReservationView(&reservation, owner))
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseReservationID(c.Param("id"))
	if err != nil {
		return notFoundReservation()
	}

	reservation, err := h.Repo.GetReservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrReservationNotFound) {
			return notFoundReservation()
		}
		return err
	}

	return c.JSON(http.StatusOK, newReservationView(reservation, &reservation.Owner))
}

func (h *ReservationHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_update")

	id, err := parseReservationID(c.Param("id"))
	if err != nil {
		return notFoundReservation()
	}

	var req struct {
		RegisterTimestamp string `json:"register_timestamp"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	timestamp, err := parseTimestamp(req.RegisterTimestamp)
	if err != nil {
		l.Warn("update_error", "status", 422, "reason", "invalid timestamp", "value", req.RegisterTimestamp)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	// Ownership moves to the caller, not just the timestamp.
	owner := authmw.CurrentUser(c)
	reservation, err := h.Repo.UpdateReservation(ctx, id, timestamp, owner.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrReservationNotFound) {
			return notFoundReservation()
		}
		return err
	}

	publish(c, h.Producer, reservationEventsTopic, fmt.Sprint(reservation.ReservationID), map[string]interface{}{
		"type":           "reservation_updated",
		"reservation_id": reservation.ReservationID,
		"user_id":        owner.UserID,
	})
	h.indexReservation(c, reservation, &reservation.Owner)

	l.Info("reservation_updated", "reservation_id", reservation.ReservationID)
	return c.JSON(http.StatusOK, newReservationView(reservation, &reservation.Owner))
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_delete")

	id, err := parseReservationID(c.Param("id"))
	if err != nil {
		return notFoundReservation()
	}

	if err := h.Repo.DeleteReservation(ctx, id); err != nil {
		if errors.Is(err, repo.ErrReservationNotFound) {
			return notFoundReservation()
		}
		return err
	}

	publish(c, h.Producer, reservationEventsTopic, fmt.Sprint(id), map[string]interface{}{
		"type":           "reservation_deleted",
		"reservation_id": id,
	})

	l.Info("reservation_deleted", "reservation_id", id)
	return c.JSON(http.StatusOK, echo.Map{"detail": "Reservation deleted"})
}

func (h *ReservationHandler) GetOnDate(c echo.Context) error {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	day, errD := strconv.Atoi(c.Param("day"))
	if errY != nil || errM != nil || errD != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid format date")
	}

	from, to, err := dayWindow(year, month, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	reservations, err := h.Repo.GetReservationsBetween(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationViews(reservations))
}

// GetToday lists reservations whose register_timestamp falls on the
// current UTC date. The timestamp doubles as the creation marker, so
// "created today" and "scheduled today" are the same query here.
func (h *ReservationHandler) GetToday(c echo.Context) error {
	now := time.Now().UTC()
	from, to, err := dayWindow(now.Year(), int(now.Month()), now.Day())
	if err != nil {
		return err
	}

	reservations, err := h.Repo.GetReservationsBetween(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationViews(reservations))
}

// ReportTaken flips the vaccinated flag. The route carries no auth gate.
func (h *ReservationHandler) ReportTaken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_report_taken")

	id, err := parseReservationID(c.Param("id"))
	if err != nil {
		return notFoundReservation()
	}

	reservation, err := h.Repo.MarkReportTaken(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrReservationNotFound) {
			return notFoundReservation()
		}
		return err
	}

	publish(c, h.Producer, reservationEventsTopic, fmt.Sprint(reservation.ReservationID), map[string]interface{}{
		"type":           "reservation_report_taken",
		"reservation_id": reservation.ReservationID,
	})
	h.indexReservation(c, reservation, &reservation.Owner)

	l.Info("reservation_report_taken", "reservation_id", reservation.ReservationID)
	return c.JSON(http.StatusOK, newReservationView(reservation, &reservation.Owner))
}

func (h *ReservationHandler) indexReservation(c echo.Context, reservation *models.Reservation, owner *models.User) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc := search.ReservationDoc{
		ReservationID:     reservation.ReservationID,
		Name:              owner.Name,
		Surname:           owner.Surname,
		Occupation:        owner.Occupation,
		RegisterTimestamp: reservation.RegisterTimestamp,
		Vaccinated:        reservation.Vaccinated,
	}
	if err := search.IndexReservation(ctx, h.ES, h.Index, doc); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
