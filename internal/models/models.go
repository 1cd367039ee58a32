package models

import (
	"time"
)

type User struct {
	UserID       uint          `gorm:"primaryKey;autoIncrement;column:user_id" json:"user_id"`
	Name         string        `gorm:"not null"             json:"name"`
	Surname      string        `gorm:"not null"             json:"surname"`
	CitizenID    string        `gorm:"uniqueIndex;not null" json:"citizen_id"`
	BirthDate    time.Time     `gorm:"not null"             json:"birth_date"`
	Occupation   string        `json:"occupation"`
	Address      string        `json:"address"`
	PasswordHash string        `gorm:"not null"             json:"-"`
	Reservations []Reservation `gorm:"foreignKey:UserID;references:UserID" json:"reservations"`
}

func (User) TableName() string { return "users" }

type Reservation struct {
	ReservationID     uint      `gorm:"primaryKey;autoIncrement;column:reservation_id" json:"reservation_id"`
	RegisterTimestamp time.Time `gorm:"index;not null" json:"register_timestamp"`
	Vaccinated        bool      `gorm:"default:false"  json:"vaccinated"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	Owner             User      `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Reservation) TableName() string { return "reservations" }
