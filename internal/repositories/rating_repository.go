package repositories

import (
	"context"

	"storerating/internal/models"
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	FindByUserAndStore(ctx context.Context, userID, storeID string) (*models.Rating, error)
	// Upsert inserts the rating or, when the (user, store) pair already has
	// one, overwrites its value. rating is refreshed from the stored row.
	Upsert(ctx context.Context, rating *models.Rating) error
	Count(ctx context.Context) (int64, error)
}
