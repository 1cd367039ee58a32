package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tanawatq/vaccine_reservation/internal/models"
)

// CreateUser persists a new user. A duplicate citizen id violates the
// unique constraint; the driver error is returned as-is and surfaces to
// the caller as a server fault.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) GetUserByCitizenID(ctx context.Context, citizenID string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Reservations").
		Where("citizen_id = ?", citizenID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
