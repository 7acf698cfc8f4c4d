package repositories

import (
	"context"

	"storerate/internal/models"
)

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	GetByEmail(ctx context.Context, email string) (*models.Store, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*models.Store, error)
	ListByOwnerIDs(ctx context.Context, ownerIDs []string) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]models.Store, int64, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]models.Store, error)
}
