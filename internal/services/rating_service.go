package services

import (
	"context"
	"errors"

	"storerate/internal/apperr"
	"storerate/internal/metrics"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

const msgAlreadyRated = "You have already rated this store. Use update instead."

// StoreRatings is a store's ratings together with their aggregate.
type StoreRatings struct {
	Ratings []models.RatingView  `json:"ratings"`
	Summary models.RatingSummary `json:"summary"`
}

// RatingService records and lists ratings.
type RatingService struct {
	ratings repositories.RatingRepository
	stores  repositories.StoreRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratings repositories.RatingRepository, stores repositories.StoreRepository) *RatingService {
	return &RatingService{ratings: ratings, stores: stores}
}

// Submit records userID's first rating of storeID.
func (s *RatingService) Submit(ctx context.Context, userID, storeID string, score int) (*models.RatingView, error) {
	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		return nil, notFoundOr(err, msgStoreNotFound)
	}
	if _, err := s.ratings.GetByUserAndStore(ctx, userID, storeID); err == nil {
		return nil, apperr.Duplicate(msgAlreadyRated)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	rating := &models.Rating{UserID: userID, StoreID: storeID, Rating: score}
	// A concurrent submit that passed the lookup loses on the unique index.
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, duplicateOr(err, msgAlreadyRated)
	}
	metrics.RecordRating("submit", score)
	view := models.NewRatingView(rating)
	return &view, nil
}

// Update changes the score of a rating owned by userID.
func (s *RatingService) Update(ctx context.Context, userID, ratingID string, score int) (*models.RatingView, error) {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return nil, notFoundOr(err, "Rating not found")
	}
	if rating.UserID != userID {
		return nil, apperr.Forbidden("You can only update your own ratings")
	}
	rating.Rating = score
	if err := s.ratings.Update(ctx, rating); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.RecordRating("update", score)
	view := models.NewRatingView(rating)
	return &view, nil
}

// ListMine returns the ratings userID has given, with store details.
func (s *RatingService) ListMine(ctx context.Context, userID string) ([]models.RatingView, error) {
	ratings, err := s.ratings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ratingViews(ratings), nil
}

// ListForStore returns the ratings of storeID. Admins may read any store;
// store owners only their own.
func (s *RatingService) ListForStore(ctx context.Context, caller *models.User, storeID string) (*StoreRatings, error) {
	if err := CheckAccess(caller, models.RoleAdmin, models.RoleStoreOwner); err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, notFoundOr(err, msgStoreNotFound)
	}
	if caller.Role == models.RoleStoreOwner && (store.OwnerID == nil || *store.OwnerID != caller.ID) {
		return nil, apperr.Forbidden("Access not allowed.")
	}

	ratings, err := s.ratings.ListByStore(ctx, storeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &StoreRatings{
		Ratings: ratingViews(ratings),
		Summary: Aggregate(scoresOf(ratings)),
	}, nil
}

func ratingViews(ratings []models.Rating) []models.RatingView {
	views := make([]models.RatingView, len(ratings))
	for i := range ratings {
		views[i] = models.NewRatingView(&ratings[i])
	}
	return views
}
