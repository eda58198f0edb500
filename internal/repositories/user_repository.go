package repositories

import (
	"context"

	"storerating/internal/models"
)

// UserFilter selects and orders users for admin listings.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    models.Role
	SortBy  string
	Desc    bool
	Offset  int
	Limit   int
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
}
