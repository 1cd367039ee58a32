package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("No user with this citizen id")
	ErrReservationNotFound = errors.New("No reservation with this id")
)

type GormRepo struct {
	DB *gorm.DB
}
