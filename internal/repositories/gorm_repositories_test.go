package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storerate/internal/database"
	"storerate/internal/models"
	"storerate/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func seedUser(t *testing.T, repo repositories.UserRepository, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hash", Address: "1 Main St", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedStore(t *testing.T, repo repositories.StoreRepository, name, email string, ownerID *string) *models.Store {
	t.Helper()
	s := &models.Store{Name: name, Email: email, Address: "2 Market Rd", OwnerID: ownerID}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)

	err := users.Create(context.Background(), &models.User{Name: "Alice Two", Email: "alice@example.com", Password: "x", Address: "a"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	n, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	_, err := users.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserRepository_ListSearchAndRole(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	seedUser(t, users, "Bob Owner", "bob@example.com", models.RoleStoreOwner)
	seedUser(t, users, "Carol Admin", "carol@example.com", models.RoleAdmin)
	ctx := context.Background()

	page, total, err := users.List(ctx, repositories.ListFilter{Limit: 10, Search: "ALICE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "alice@example.com", page[0].Email)

	page, total, err = users.List(ctx, repositories.ListFilter{Limit: 10, Role: models.RoleStoreOwner})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bob Owner", page[0].Name)

	page, _, err = users.List(ctx, repositories.ListFilter{Limit: 10, SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Alice Doe", page[0].Name)
	assert.Equal(t, "Carol Admin", page[2].Name)
}

func TestUserRepository_CountByRole(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	seedUser(t, users, "Dave Doe", "dave@example.com", models.RoleUser)
	seedUser(t, users, "Carol Admin", "carol@example.com", models.RoleAdmin)

	counts, err := users.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.RoleUser])
	assert.Equal(t, int64(1), counts[models.RoleAdmin])
	_, ok := counts[models.RoleStoreOwner]
	assert.False(t, ok)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	stores := repositories.NewGORMStoreRepository(db)
	ratings := repositories.NewGORMRatingRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "Bob Owner", "bob@example.com", models.RoleStoreOwner)
	store := seedStore(t, stores, "Bob's Bakery", "bakery@example.com", &owner.ID)
	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: owner.ID, StoreID: store.ID, Rating: 4}))

	require.NoError(t, users.Delete(ctx, owner.ID))

	_, err := users.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	n, err := ratings.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	reloaded, err := stores.GetByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.OwnerID)

	assert.ErrorIs(t, users.Delete(ctx, owner.ID), repositories.ErrNotFound)
}

func TestUserRepository_ResetTokens(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	live := seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	liveHash, liveExpiry := "live-hash", now.Add(time.Hour)
	live.ResetToken, live.ResetTokenExpiry = &liveHash, &liveExpiry
	require.NoError(t, users.Update(ctx, live))

	stale := seedUser(t, users, "Dave Doe", "dave@example.com", models.RoleUser)
	staleHash, staleExpiry := "stale-hash", now.Add(-time.Minute)
	stale.ResetToken, stale.ResetTokenExpiry = &staleHash, &staleExpiry
	require.NoError(t, users.Update(ctx, stale))

	found, err := users.GetByResetToken(ctx, "live-hash", now)
	require.NoError(t, err)
	assert.Equal(t, live.ID, found.ID)

	_, err = users.GetByResetToken(ctx, "stale-hash", now)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	cleared, err := users.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	reloaded, err := users.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ResetToken)
	assert.Nil(t, reloaded.ResetTokenExpiry)
}

func TestUserRepository_ConsumeResetTokenOnce(t *testing.T) {
	users := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	user := seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	hash, expiry := "token-hash", now.Add(time.Hour)
	user.ResetToken, user.ResetTokenExpiry = &hash, &expiry
	require.NoError(t, users.Update(ctx, user))

	assert.ErrorIs(t, users.ConsumeResetToken(ctx, user.ID, "other-hash", "new-password", now), repositories.ErrNotFound)
	assert.ErrorIs(t, users.ConsumeResetToken(ctx, user.ID, hash, "new-password", expiry.Add(time.Second)), repositories.ErrNotFound)

	require.NoError(t, users.ConsumeResetToken(ctx, user.ID, hash, "new-password", now))
	assert.ErrorIs(t, users.ConsumeResetToken(ctx, user.ID, hash, "second-password", now), repositories.ErrNotFound)

	reloaded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-password", reloaded.Password)
	assert.Nil(t, reloaded.ResetToken)
	assert.Nil(t, reloaded.ResetTokenExpiry)
}

func TestStoreRepository_Pagination(t *testing.T) {
	stores := repositories.NewGORMStoreRepository(newTestDB(t))
	for i := 0; i < 25; i++ {
		seedStore(t, stores, fmt.Sprintf("Store %02d", i), fmt.Sprintf("store%02d@example.com", i), nil)
	}

	page, total, err := stores.List(context.Background(), repositories.ListFilter{Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 5)
}

func TestStoreRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	stores := repositories.NewGORMStoreRepository(newTestDB(t))
	seedStore(t, stores, "Plain Shop", "plain@example.com", nil)
	seedStore(t, stores, "Half_Price", "half@example.com", nil)
	seedStore(t, stores, "Sale 100% Off", "sale@example.com", nil)
	ctx := context.Background()

	page, total, err := stores.List(ctx, repositories.ListFilter{Limit: 10, Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Half_Price", page[0].Name)

	page, total, err = stores.List(ctx, repositories.ListFilter{Limit: 10, Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Sale 100% Off", page[0].Name)

	_, total, err = stores.List(ctx, repositories.ListFilter{Limit: 10, Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestStoreRepository_OneStorePerOwner(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	stores := repositories.NewGORMStoreRepository(db)
	owner := seedUser(t, users, "Bob Owner", "bob@example.com", models.RoleStoreOwner)
	seedStore(t, stores, "First Store", "first@example.com", &owner.ID)

	err := stores.Create(context.Background(), &models.Store{Name: "Second Store", Email: "second@example.com", Address: "x", OwnerID: &owner.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	found, err := stores.GetByOwnerID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Store", found.Name)
}

func TestStoreRepository_DeleteRemovesRatings(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	stores := repositories.NewGORMStoreRepository(db)
	ratings := repositories.NewGORMRatingRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	s := seedStore(t, stores, "Corner Shop", "corner@example.com", nil)
	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: u.ID, StoreID: s.ID, Rating: 2}))

	require.NoError(t, stores.Delete(ctx, s.ID))
	n, err := ratings.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, stores.Delete(ctx, s.ID), repositories.ErrNotFound)
}

func TestRatingRepository_UniquePair(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	stores := repositories.NewGORMStoreRepository(db)
	ratings := repositories.NewGORMRatingRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	s := seedStore(t, stores, "Corner Shop", "corner@example.com", nil)
	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: u.ID, StoreID: s.ID, Rating: 3}))

	err := ratings.Create(ctx, &models.Rating{UserID: u.ID, StoreID: s.ID, Rating: 5})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	n, err := ratings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRatingRepository_ListingsAndCounts(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	stores := repositories.NewGORMStoreRepository(db)
	ratings := repositories.NewGORMRatingRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "Alice Doe", "alice@example.com", models.RoleUser)
	dave := seedUser(t, users, "Dave Doe", "dave@example.com", models.RoleUser)
	shop := seedStore(t, stores, "Corner Shop", "corner@example.com", nil)
	cafe := seedStore(t, stores, "Cafe", "cafe@example.com", nil)

	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: alice.ID, StoreID: shop.ID, Rating: 3}))
	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: dave.ID, StoreID: shop.ID, Rating: 5}))
	require.NoError(t, ratings.Create(ctx, &models.Rating{UserID: alice.ID, StoreID: cafe.ID, Rating: 5}))

	byStore, err := ratings.ListByStore(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, byStore, 2)
	require.NotNil(t, byStore[0].User)
	assert.NotEmpty(t, byStore[0].User.Name)
	assert.Empty(t, byStore[0].User.Password)

	byUser, err := ratings.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	require.NotNil(t, byUser[0].Store)

	bare, err := ratings.ListForStores(ctx, []string{shop.ID, cafe.ID})
	require.NoError(t, err)
	assert.Len(t, bare, 3)

	scores, err := ratings.CountByScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), scores[3])
	assert.Equal(t, int64(2), scores[5])

	existing, err := ratings.GetByUserAndStore(ctx, dave.ID, shop.ID)
	require.NoError(t, err)
	existing.Rating = 1
	require.NoError(t, ratings.Update(ctx, existing))
	reloaded, err := ratings.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Rating)
}
