package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lunarworks/LanternFox/app/models"
)

type generatedImageRepository struct {
	db *gorm.DB
}

// NewGeneratedImageRepository creates a generation-history repository backed by GORM.
func NewGeneratedImageRepository(db *gorm.DB) GeneratedImageRepository {
	return &generatedImageRepository{db: db}
}

func (r *generatedImageRepository) Create(ctx context.Context, image *models.GeneratedImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *generatedImageRepository) GetByID(ctx context.Context, id string) (*models.GeneratedImage, error) {
	var image models.GeneratedImage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *generatedImageRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.GeneratedImage, error) {
	if limit <= 0 {
		limit = 50
	}
	var images []models.GeneratedImage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&images).Error
	return images, err
}

func (r *generatedImageRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GeneratedImage{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *generatedImageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.GeneratedImage{}).Error
}
