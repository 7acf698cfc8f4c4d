package repositories

import (
	"context"

	"storerate/internal/models"
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id string) (*models.Rating, error)
	GetByUserAndStore(ctx context.Context, userID, storeID string) (*models.Rating, error)
	Update(ctx context.Context, rating *models.Rating) error
	// ListByStore returns a store's ratings, newest first, with raters loaded.
	ListByStore(ctx context.Context, storeID string) ([]models.Rating, error)
	// ListByUser returns a user's ratings, newest first, with stores loaded.
	ListByUser(ctx context.Context, userID string) ([]models.Rating, error)
	// ListForStores returns bare ratings (no associations) for many stores.
	ListForStores(ctx context.Context, storeIDs []string) ([]models.Rating, error)
	Count(ctx context.Context) (int64, error)
	CountByScore(ctx context.Context) (map[int]int64, error)
}
