package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a single user's score for a store. A user holds at most one
// rating per store, enforced by idx_ratings_user_store.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Value     int       `json:"rating" gorm:"column:rating;not null;check:chk_ratings_range,rating >= 1 AND rating <= 5"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   string    `json:"storeId" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRating reports whether v is inside the accepted score range.
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
