package handlers

import (
	"time"

	"github.com/tanawatq/vaccine_reservation/internal/models"
)

const birthDateLayout = "2006-01-02"

type ownerView struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	BirthDate  string `json:"birth_date"`
	CitizenID  string `json:"citizen_id"`
	Occupation string `json:"occupation"`
	Address    string `json:"address"`
}

type reservationView struct {
	ReservationID     uint      `json:"reservation_id"`
	RegisterTimestamp time.Time `json:"register_timestamp"`
	Owner             ownerView `json:"owner"`
	Vaccinated        bool      `json:"vaccinated"`
}

type reservationStamp struct {
	RegisterTimestamp time.Time `json:"register_timestamp"`
}

// userView is the registration/profile shape: no birth date, no password.
type userView struct {
	UserID       uint               `json:"user_id"`
	Name         string             `json:"name"`
	Surname      string             `json:"surname"`
	CitizenID    string             `json:"citizen_id"`
	Occupation   string             `json:"occupation"`
	Address      string             `json:"address"`
	Reservations []reservationStamp `json:"reservations"`
}

func newOwnerView(owner *models.User) ownerView {
	return ownerView{
		Name:       owner.Name,
		Surname:    owner.Surname,
		BirthDate:  owner.BirthDate.Format(birthDateLayout),
		CitizenID:  owner.CitizenID,
		Occupation: owner.Occupation,
		Address:    owner.Address,
	}
}

func newReservationView(reservation *models.Reservation, owner *models.User) reservationView {
	return reservationView{
		ReservationID:     reservation.ReservationID,
		RegisterTimestamp: reservation.RegisterTimestamp,
		Owner:             newOwnerView(owner),
		Vaccinated:        reservation.Vaccinated,
	}
}

func newReservationViews(reservations []models.Reservation) []reservationView {
	views := make([]reservationView, len(reservations))
	for i := range reservations {
		views[i] = newReservationView(&reservations[i], &reservations[i].Owner)
	}
	return views
}

func newUserView(user *models.User) userView {
	stamps := make([]reservationStamp, len(user.Reservations))
	for i, reservation := range user.Reservations {
		stamps[i] = reservationStamp{RegisterTimestamp: reservation.RegisterTimestamp}
	}
	return userView{
		UserID:       user.UserID,
		Name:         user.Name,
		Surname:      user.Surname,
		CitizenID:    user.CitizenID,
		Occupation:   user.Occupation,
		Address:      user.Address,
		Reservations: stamps,
	}
}
