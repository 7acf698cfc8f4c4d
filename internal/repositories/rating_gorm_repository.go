package repositories

import (
	"context"
	"fmt"

	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Create inserts a rating. A second rating for the same user and store fails
// with ErrDuplicate.
func (r *GORMRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User", "Store").Create(rating).Error; err != nil {
		return translate(err, "failed to create rating")
	}
	return nil
}

// GetByID retrieves a rating by its ID.
func (r *GORMRatingRepository) GetByID(ctx context.Context, id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, translate(err, "rating with ID %s", id)
	}
	return &rating, nil
}

// GetByUserAndStore retrieves the rating a user gave a store.
func (r *GORMRatingRepository) GetByUserAndStore(ctx context.Context, userID, storeID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error
	if err != nil {
		return nil, translate(err, "rating by user %s for store %s", userID, storeID)
	}
	return &rating, nil
}

// Update writes every column of rating.
func (r *GORMRatingRepository) Update(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("User", "Store").Save(rating).Error; err != nil {
		return translate(err, "failed to update rating %s", rating.ID)
	}
	return nil
}

// ListByStore returns a store's ratings with the rater's id, name and email.
func (r *GORMRatingRepository) ListByStore(ctx context.Context, storeID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for store %s: %w", storeID, err)
	}
	return ratings, nil
}

// ListByUser returns a user's ratings with the store's id, name and address.
func (r *GORMRatingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Preload("Store", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "address") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for user %s: %w", userID, err)
	}
	return ratings, nil
}

// ListForStores returns the ratings of all the given stores.
func (r *GORMRatingRepository) ListForStores(ctx context.Context, storeIDs []string) ([]models.Rating, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "store_id", "rating").
		Where("store_id IN ?", storeIDs).
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for stores: %w", err)
	}
	return ratings, nil
}

// Count returns the number of ratings.
func (r *GORMRatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}

// CountByScore returns how many ratings carry each score.
func (r *GORMRatingRepository) CountByScore(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		Score int
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("rating AS score, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings by score: %w", err)
	}
	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Score] = row.Count
	}
	return counts, nil
}
