package repositories

import (
	"context"
	"fmt"

	"storerating/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

func (r *GORMRatingRepository) FindByUserAndStore(ctx context.Context, userID, storeID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error
	if err != nil {
		return nil, fmt.Errorf("rating by user %s for store %s: %w", userID, storeID, translate(err))
	}
	return &rating, nil
}

// Upsert relies on idx_ratings_user_store, so concurrent raters of the same
// pair converge on a single row.
func (r *GORMRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).
		Omit("User", "Store").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", translate(err))
	}

	stored, err := r.FindByUserAndStore(ctx, rating.UserID, rating.StoreID)
	if err != nil {
		return err
	}
	*rating = *stored
	return nil
}

// Count returns the number of ratings.
func (r *GORMRatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}
