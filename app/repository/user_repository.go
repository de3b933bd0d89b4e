package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lunarworks/LanternFox/app/models"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository backed by GORM. The user
// table is owned by the external auth service; this repository only reads.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
