package services

import (
	"context"
	"errors"

	"storerate/internal/apperr"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

const msgStoreNotFound = "Store not found"

// StoreList is one page of stores.
type StoreList struct {
	Stores     []models.StoreView `json:"stores"`
	Pagination models.Pagination  `json:"pagination"`
}

// StoreInput creates a store. OwnerID is optional.
type StoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID *string
}

// UpdateStoreInput holds the fields to change. An OwnerID pointing at an
// empty string detaches the current owner.
type UpdateStoreInput struct {
	Name    *string
	Email   *string
	Address *string
	OwnerID *string
}

// StoreService manages stores and attaches rating aggregates to them.
type StoreService struct {
	stores  repositories.StoreRepository
	users   repositories.UserRepository
	ratings repositories.RatingRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(stores repositories.StoreRepository, users repositories.UserRepository, ratings repositories.RatingRepository) *StoreService {
	return &StoreService{stores: stores, users: users, ratings: ratings}
}

// List returns one page of stores. When viewer is not nil each store carries
// the viewer's own rating.
func (s *StoreService) List(ctx context.Context, q ListQuery, viewer *models.User) (*StoreList, error) {
	q = q.normalize()
	q.Role = ""
	stores, total, err := s.stores.List(ctx, q.filter())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, err := s.decorate(ctx, stores, viewer)
	if err != nil {
		return nil, err
	}
	return &StoreList{Stores: views, Pagination: models.NewPagination(total, q.Page, q.Limit)}, nil
}

// Get returns one store with its aggregate and its ratings, newest first,
// each with the rater's id and name.
func (s *StoreService) Get(ctx context.Context, id string, viewer *models.User) (*models.StoreView, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgStoreNotFound)
	}
	ratings, err := s.ratings.ListByStore(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	view := storeView(*store, ratings, viewer)
	view.Ratings = ratingViews(ratings)
	for i := range view.Ratings {
		if u := view.Ratings[i].User; u != nil {
			u.Email = ""
		}
	}
	return &view, nil
}

// Create adds a store, optionally assigned to a store owner.
func (s *StoreService) Create(ctx context.Context, in StoreInput) (*models.StoreView, error) {
	if err := s.checkEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}
	store := &models.Store{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
	}
	if in.OwnerID != nil && *in.OwnerID != "" {
		if err := s.checkOwner(ctx, *in.OwnerID, ""); err != nil {
			return nil, err
		}
		owner := *in.OwnerID
		store.OwnerID = &owner
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, duplicateOr(err, "Store with this email already exists")
	}
	return &models.StoreView{Store: *store, AverageRating: "0.00"}, nil
}

// Update applies the non-nil fields of in to store id.
func (s *StoreService) Update(ctx context.Context, id string, in UpdateStoreInput) (*models.StoreView, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgStoreNotFound)
	}
	if in.Email != nil && *in.Email != store.Email {
		if err := s.checkEmailFree(ctx, *in.Email); err != nil {
			return nil, err
		}
		store.Email = *in.Email
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.OwnerID != nil {
		if *in.OwnerID == "" {
			store.OwnerID = nil
		} else {
			if err := s.checkOwner(ctx, *in.OwnerID, store.ID); err != nil {
				return nil, err
			}
			owner := *in.OwnerID
			store.OwnerID = &owner
		}
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, duplicateOr(err, "Store with this email already exists")
	}
	return s.Get(ctx, id, nil)
}

// Delete removes a store and all of its ratings.
func (s *StoreService) Delete(ctx context.Context, id string) error {
	if err := s.stores.Delete(ctx, id); err != nil {
		return notFoundOr(err, msgStoreNotFound)
	}
	return nil
}

func (s *StoreService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.stores.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return apperr.Duplicate("Store with this email already exists")
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return apperr.Internal(err)
	}
}

// checkOwner verifies ownerID can own a store. storeID is the store being
// updated, which the owner may already hold.
func (s *StoreService) checkOwner(ctx context.Context, ownerID, storeID string) error {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return notFoundOr(err, "Owner not found")
	}
	if owner.Role != models.RoleStoreOwner {
		return apperr.Validation("Validation failed", apperr.FieldError{
			Field:   "ownerId",
			Message: "Owner must have the store_owner role",
		})
	}
	held, err := s.stores.GetByOwnerID(ctx, ownerID)
	switch {
	case err == nil && held.ID != storeID:
		return apperr.Duplicate("Owner already has a store")
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return apperr.Internal(err)
	}
	return nil
}

func (s *StoreService) decorate(ctx context.Context, stores []models.Store, viewer *models.User) ([]models.StoreView, error) {
	views := make([]models.StoreView, len(stores))
	if len(stores) == 0 {
		return views, nil
	}
	ids := make([]string, len(stores))
	for i, st := range stores {
		ids[i] = st.ID
	}
	ratings, err := s.ratings.ListForStores(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byStore := make(map[string][]models.Rating, len(stores))
	for _, r := range ratings {
		byStore[r.StoreID] = append(byStore[r.StoreID], r)
	}
	for i, st := range stores {
		views[i] = storeView(st, byStore[st.ID], viewer)
	}
	return views, nil
}

// storeView aggregates ratings, all of which belong to st, and picks out the
// viewer's own rating.
func storeView(st models.Store, ratings []models.Rating, viewer *models.User) models.StoreView {
	summary := Aggregate(scoresOf(ratings))
	view := models.StoreView{
		Store:         st,
		AverageRating: summary.AverageRating,
		TotalRatings:  summary.TotalRatings,
	}
	if viewer == nil {
		return view
	}
	for _, r := range ratings {
		if r.UserID == viewer.ID {
			score, id := r.Rating, r.ID
			view.UserRating = &score
			view.UserRatingID = &id
			break
		}
	}
	return view
}
