package services_test

import (
	"context"
	"testing"

	"storerate/internal/apperr"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_GetProjectsOwnedStore(t *testing.T) {
	users := new(MockUserRepository)
	stores := new(MockStoreRepository)
	ratings := new(MockRatingRepository)
	svc := services.NewUserService(users, stores, ratings, services.NewBcryptHasher(bcrypt.MinCost))

	ownerID := "owner-1"
	users.On("GetByID", mock.Anything, ownerID).Return(&models.User{ID: ownerID, Role: models.RoleStoreOwner, Password: "hash"}, nil)
	stores.On("ListByOwnerIDs", mock.Anything, []string{ownerID}).Return([]models.Store{{ID: "s1", OwnerID: &ownerID}}, nil)
	ratings.On("ListForStores", mock.Anything, []string{"s1"}).Return([]models.Rating{{StoreID: "s1", Rating: 2}, {StoreID: "s1", Rating: 5}}, nil)

	view, err := svc.Get(context.Background(), ownerID)
	require.NoError(t, err)
	require.NotNil(t, view.StoreID)
	assert.Equal(t, "s1", *view.StoreID)
	require.NotNil(t, view.AverageRating)
	assert.Equal(t, "3.50", *view.AverageRating)
}

func TestUserService_GetPlainUserHasNoStore(t *testing.T) {
	users := new(MockUserRepository)
	stores := new(MockStoreRepository)
	svc := services.NewUserService(users, stores, new(MockRatingRepository), services.NewBcryptHasher(bcrypt.MinCost))

	users.On("GetByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Role: models.RoleUser}, nil)
	view, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, view.StoreID)
	assert.Nil(t, view.AverageRating)
	stores.AssertNotCalled(t, "ListByOwnerIDs", mock.Anything, mock.Anything)

	users.On("GetByID", mock.Anything, "nope").Return(nil, repositories.ErrNotFound)
	_, err = svc.Get(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserService_UpdateRehashesPassword(t *testing.T) {
	users := new(MockUserRepository)
	hasher := services.NewBcryptHasher(bcrypt.MinCost)
	svc := services.NewUserService(users, new(MockStoreRepository), new(MockRatingRepository), hasher)
	ctx := context.Background()

	user := &models.User{ID: "u1", Email: "a@example.com", Role: models.RoleUser, Password: "old"}
	users.On("GetByID", mock.Anything, "u1").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: "u2"}, nil).Once()

	taken := "taken@example.com"
	_, err := svc.Update(ctx, "u1", services.UpdateUserInput{Email: &taken})
	assert.True(t, apperr.Is(err, apperr.KindDuplicate))
	assert.Equal(t, "Email already in use", err.Error())

	password := "Changed#123"
	name := "New Name"
	users.On("Update", mock.Anything, user).Return(nil).Once()
	view, err := svc.Update(ctx, "u1", services.UpdateUserInput{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Name)
	assert.True(t, hasher.Compare(user.Password, password))
}

func TestUserService_ListPaginates(t *testing.T) {
	users := new(MockUserRepository)
	svc := services.NewUserService(users, new(MockStoreRepository), new(MockRatingRepository), services.NewBcryptHasher(bcrypt.MinCost))

	filter := repositories.ListFilter{Offset: 0, Limit: 100, Search: "ann", Role: models.RoleUser, SortBy: "name", Desc: false}
	users.On("List", mock.Anything, filter).Return([]models.User{{ID: "u1", Role: models.RoleUser}}, int64(1), nil).Once()

	res, err := svc.List(context.Background(), services.ListQuery{Limit: 500, Search: "ann", Role: "user", SortBy: "name", Order: "asc"})
	require.NoError(t, err)
	assert.Len(t, res.Users, 1)
	assert.Equal(t, models.Pagination{Total: 1, Page: 1, Limit: 100, TotalPages: 1}, res.Pagination)
	users.AssertExpectations(t)
}

func TestUserService_UpdateRefusesDemotingOwnerWithStore(t *testing.T) {
	users := new(MockUserRepository)
	stores := new(MockStoreRepository)
	ratings := new(MockRatingRepository)
	svc := services.NewUserService(users, stores, ratings, services.NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	ownerID := "owner-1"
	owner := &models.User{ID: ownerID, Role: models.RoleStoreOwner}
	users.On("GetByID", mock.Anything, ownerID).Return(owner, nil)
	stores.On("GetByOwnerID", mock.Anything, ownerID).Return(&models.Store{ID: "s1", OwnerID: &ownerID}, nil).Once()

	demoted := models.RoleUser
	_, err := svc.Update(ctx, ownerID, services.UpdateUserInput{Role: &demoted})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, models.RoleStoreOwner, owner.Role)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	stores.On("GetByOwnerID", mock.Anything, ownerID).Return(nil, repositories.ErrNotFound).Once()
	users.On("Update", mock.Anything, owner).Return(nil).Once()
	view, err := svc.Update(ctx, ownerID, services.UpdateUserInput{Role: &demoted})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, view.Role)
	assert.Nil(t, view.StoreID)
}
