package repositories

import (
	"context"

	"storerating/internal/models"
)

// StoreFilter holds the substring filters applied before aggregation.
type StoreFilter struct {
	Name    string
	Email   string
	Address string
}

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	// ListWithRatings returns every store matching filter with Ratings loaded.
	ListWithRatings(ctx context.Context, filter StoreFilter) ([]models.Store, error)
	// ListByOwner returns the owner's stores with Ratings and each rating's
	// User loaded.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Store, error)
	Count(ctx context.Context) (int64, error)
}
