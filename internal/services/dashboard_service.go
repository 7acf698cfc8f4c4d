package services

import (
	"context"

	"storerate/internal/apperr"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

const (
	recentAdminItems   = 5
	recentStoreRatings = 10
)

// AdminStats is the platform-wide overview.
type AdminStats struct {
	TotalUsers         int64                 `json:"totalUsers"`
	TotalStores        int64                 `json:"totalStores"`
	TotalRatings       int64                 `json:"totalRatings"`
	AverageRating      string                `json:"averageRating"`
	UsersByRole        map[models.Role]int64 `json:"usersByRole"`
	RecentUsers        []models.UserView     `json:"recentUsers"`
	RecentStores       []models.Store        `json:"recentStores"`
	RatingDistribution map[int]int           `json:"ratingDistribution"`
}

// StoreOwnerStats is the overview of the caller's own store.
type StoreOwnerStats struct {
	Store         models.Store         `json:"store"`
	Summary       models.RatingSummary `json:"summary"`
	RecentRatings []models.RatingView  `json:"recentRatings"`
}

// DashboardService computes dashboard figures on demand.
type DashboardService struct {
	users   repositories.UserRepository
	stores  repositories.StoreRepository
	ratings repositories.RatingRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(users repositories.UserRepository, stores repositories.StoreRepository, ratings repositories.RatingRepository) *DashboardService {
	return &DashboardService{users: users, stores: stores, ratings: ratings}
}

// AdminStats gathers totals, per-role counts, recent entries and the global
// rating distribution.
func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	totalStores, err := s.stores.Count(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	counts, err := s.ratings.CountByScore(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recentUsers, err := s.users.Recent(ctx, recentAdminItems)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recentStores, err := s.stores.Recent(ctx, recentAdminItems)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	usersByRole := make(map[models.Role]int64, len(models.Roles))
	for _, role := range models.Roles {
		usersByRole[role] = byRole[role]
	}
	summary := AggregateCounts(counts)
	userViews := make([]models.UserView, len(recentUsers))
	for i := range recentUsers {
		userViews[i] = models.NewUserView(&recentUsers[i])
	}

	return &AdminStats{
		TotalUsers:         totalUsers,
		TotalStores:        totalStores,
		TotalRatings:       int64(summary.TotalRatings),
		AverageRating:      summary.AverageRating,
		UsersByRole:        usersByRole,
		RecentUsers:        userViews,
		RecentStores:       recentStores,
		RatingDistribution: summary.RatingDistribution,
	}, nil
}

// StoreOwnerStats summarizes the store owned by ownerID.
func (s *DashboardService) StoreOwnerStats(ctx context.Context, ownerID string) (*StoreOwnerStats, error) {
	store, err := s.stores.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, "No store found for this user")
	}
	ratings, err := s.ratings.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recent := ratings
	if len(recent) > recentStoreRatings {
		recent = recent[:recentStoreRatings]
	}
	return &StoreOwnerStats{
		Store:         *store,
		Summary:       Aggregate(scoresOf(ratings)),
		RecentRatings: ratingViews(recent),
	}, nil
}
