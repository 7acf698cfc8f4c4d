package repositories

import (
	"context"
	"time"

	"storerate/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
	Recent(ctx context.Context, n int) ([]models.User, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
