package services

import (
	"context"
	"errors"

	"storerate/internal/apperr"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

// UserList is one page of users.
type UserList struct {
	Users      []models.UserView `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

// CreateUserInput is the admin form for creating an account with any role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     models.Role
}

// UpdateUserInput holds the fields to change; nil fields are left as is.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Role     *models.Role
}

// UserService manages user accounts on behalf of administrators.
type UserService struct {
	users   repositories.UserRepository
	stores  repositories.StoreRepository
	ratings repositories.RatingRepository
	hasher  PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, stores repositories.StoreRepository, ratings repositories.RatingRepository, hasher PasswordHasher) *UserService {
	return &UserService{users: users, stores: stores, ratings: ratings, hasher: hasher}
}

// List returns one page of users matching q.
func (s *UserService) List(ctx context.Context, q ListQuery) (*UserList, error) {
	q = q.normalize()
	users, total, err := s.users.List(ctx, q.filter())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, err := s.decorate(ctx, users)
	if err != nil {
		return nil, err
	}
	return &UserList{Users: views, Pagination: models.NewPagination(total, q.Page, q.Limit)}, nil
}

// Get returns a single user with its store projection.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	views, err := s.decorate(ctx, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create adds a user with an explicit role.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.UserView, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Duplicate("User with this email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateOr(err, "User with this email already exists")
	}
	view := models.NewUserView(user)
	return &view, nil
}

// Update applies the non-nil fields of in to user id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *in.Email); err == nil {
			return nil, apperr.Duplicate("Email already in use")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Internal(err)
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Role != nil {
		if user.Role == models.RoleStoreOwner && *in.Role != models.RoleStoreOwner {
			if err := s.checkNoStore(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, duplicateOr(err, "Email already in use")
	}
	return s.Get(ctx, id)
}

// checkNoStore fails while userID still owns a store, so a store's owner
// always has the store_owner role.
func (s *UserService) checkNoStore(ctx context.Context, userID string) error {
	_, err := s.stores.GetByOwnerID(ctx, userID)
	switch {
	case err == nil:
		return apperr.Validation("Validation failed", apperr.FieldError{
			Field:   "role",
			Message: "User owns a store; reassign or delete the store first",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return apperr.Internal(err)
	}
}

// Delete removes a user together with their ratings. A store they owned is
// kept without an owner.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "User not found")
	}
	return nil
}

// decorate converts users to views and fills storeId and, for owners with a
// store, averageRating.
func (s *UserService) decorate(ctx context.Context, users []models.User) ([]models.UserView, error) {
	views := make([]models.UserView, len(users))
	var ownerIDs []string
	for i := range users {
		views[i] = models.NewUserView(&users[i])
		if users[i].Role == models.RoleStoreOwner {
			ownerIDs = append(ownerIDs, users[i].ID)
		}
	}
	if len(ownerIDs) == 0 {
		return views, nil
	}

	stores, err := s.stores.ListByOwnerIDs(ctx, ownerIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(stores) == 0 {
		return views, nil
	}
	storeByOwner := make(map[string]string, len(stores))
	storeIDs := make([]string, 0, len(stores))
	for _, st := range stores {
		if st.OwnerID != nil {
			storeByOwner[*st.OwnerID] = st.ID
			storeIDs = append(storeIDs, st.ID)
		}
	}

	ratings, err := s.ratings.ListForStores(ctx, storeIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	scores := make(map[string][]int, len(storeIDs))
	for _, r := range ratings {
		scores[r.StoreID] = append(scores[r.StoreID], r.Rating)
	}

	for i := range views {
		storeID, ok := storeByOwner[views[i].ID]
		if !ok {
			continue
		}
		id := storeID
		avg := Aggregate(scores[storeID]).AverageRating
		views[i].StoreID = &id
		views[i].AverageRating = &avg
	}
	return views, nil
}
