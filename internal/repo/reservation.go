package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tanawatq/vaccine_reservation/internal/models"
)

func (r *GormRepo) GetAllReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.DB.WithContext(ctx).Preload("Owner").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormRepo) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.DB.WithContext(ctx).Create(reservation).Error
}

func (r *GormRepo) GetReservation(ctx context.Context, id int) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.DB.WithContext(ctx).
		Preload("Owner").
		Where("reservation_id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// UpdateReservation overwrites both the timestamp and the owner. The new
// owner is whoever performs the update, not the original creator.
func (r *GormRepo) UpdateReservation(ctx context.Context, id int, timestamp time.Time, userID uint) (*models.Reservation, error) {
	result := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("reservation_id = ?", id).
		Updates(map[string]interface{}{
			"register_timestamp": timestamp,
			"user_id":            userID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReservationNotFound
	}
	return r.GetReservation(ctx, id)
}

func (r *GormRepo) DeleteReservation(ctx context.Context, id int) error {
	result := r.DB.WithContext(ctx).Where("reservation_id = ?", id).Delete(&models.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetReservationsBetween returns reservations whose register_timestamp
// falls in [from, to).
func (r *GormRepo) GetReservationsBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.DB.WithContext(ctx).
		Preload("Owner").
		Where("register_timestamp >= ? AND register_timestamp < ?", from, to).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// MarkReportTaken sets the vaccinated flag. Calling it twice leaves the
// record unchanged.
func (r *GormRepo) MarkReportTaken(ctx context.Context, id int) (*models.Reservation, error) {
	reservation, err := r.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reservation.Vaccinated {
		err := r.DB.WithContext(ctx).Model(&models.Reservation{}).
			Where("reservation_id = ?", id).
			Update("vaccinated", true).Error
		if err != nil {
			return nil, err
		}
		reservation.Vaccinated = true
	}
	return reservation, nil
}
