package repositories

import (
	"context"
	"fmt"

	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return translate(err, "failed to create store")
	}
	return nil
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, translate(err, "store with ID %s", id)
	}
	return &store, nil
}

// GetByEmail retrieves a single store by its email.
func (r *GORMStoreRepository) GetByEmail(ctx context.Context, email string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "email = ?", email).Error; err != nil {
		return nil, translate(err, "store with email %s", email)
	}
	return &store, nil
}

// GetByOwnerID retrieves the store owned by a user.
func (r *GORMStoreRepository) GetByOwnerID(ctx context.Context, ownerID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "owner_id = ?", ownerID).Error; err != nil {
		return nil, translate(err, "store owned by %s", ownerID)
	}
	return &store, nil
}

// ListByOwnerIDs returns the stores owned by any of the given users.
func (r *GORMStoreRepository) ListByOwnerIDs(ctx context.Context, ownerIDs []string) ([]models.Store, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var stores []models.Store
	if err := r.db.WithContext(ctx).Where("owner_id IN ?", ownerIDs).Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get stores by owner: %w", err)
	}
	return stores, nil
}

// Update writes every column of store.
func (r *GORMStoreRepository) Update(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Omit("Owner").Save(store).Error; err != nil {
		return translate(err, "failed to update store %s", store.ID)
	}
	return nil
}

// Delete deletes a store and its ratings.
func (r *GORMStoreRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return fmt.Errorf("failed to delete ratings of store %s: %w", id, err)
		}
		res := tx.Delete(&models.Store{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete store: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("store with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// List returns one page of stores matching filter and the total match count.
func (r *GORMStoreRepository) List(ctx context.Context, filter ListFilter) ([]models.Store, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Store{})
	q = applySearch(q, filter.Search, "name", "email", "address")
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}
	var stores []models.Store
	if err := q.Order(filter.order()).Offset(filter.Offset).Limit(filter.Limit).Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, total, nil
}

// Count returns the number of stores.
func (r *GORMStoreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}

// Recent returns the n most recently created stores.
func (r *GORMStoreRepository) Recent(ctx context.Context, n int) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent stores: %w", err)
	}
	return stores, nil
}
