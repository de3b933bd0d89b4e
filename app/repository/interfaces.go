package repository

import (
	"context"

	"github.com/lunarworks/LanternFox/app/models"
)

// GeneratedImageRepository defines the interface for generation-history database operations
type GeneratedImageRepository interface {
	Create(ctx context.Context, image *models.GeneratedImage) error
	GetByID(ctx context.Context, id string) (*models.GeneratedImage, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.GeneratedImage, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the read-only interface over the externally owned user table
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
