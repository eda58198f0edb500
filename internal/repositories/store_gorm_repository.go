package repositories

import (
	"context"
	"fmt"

	"storerating/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Owner", "Ratings").Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single store by its ID.
func (r *GORMStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("store with ID %s: %w", id, translate(err))
	}
	return &store, nil
}

func (r *GORMStoreRepository) ListWithRatings(ctx context.Context, filter StoreFilter) ([]models.Store, error) {
	query := r.db.WithContext(ctx).Model(&models.Store{})
	query = whereContains(query, "name", filter.Name)
	query = whereContains(query, "email", filter.Email)
	query = whereContains(query, "address", filter.Address)

	var stores []models.Store
	if err := query.Preload("Ratings").Order("name").Order("id").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (r *GORMStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Ratings.User").
		Where("owner_id = ?", ownerID).
		Order("name").
		Find(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stores for owner %s: %w", ownerID, err)
	}
	return stores, nil
}

// Count returns the number of stores.
func (r *GORMStoreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}
