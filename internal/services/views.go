package services

import (
	"time"

	"storerating/internal/models"
)

// StoreSummary is a store as listed to shoppers and admins.
type StoreSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address"`
	OwnerID       *string   `json:"ownerId"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int       `json:"ratingCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RatingAuthor is the public part of the user who wrote a rating.
type RatingAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RatingView struct {
	ID        string        `json:"id"`
	Rating    int           `json:"rating"`
	UserID    string        `json:"userId"`
	User      *RatingAuthor `json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// OwnerStoreView is one store on an owner's dashboard or an owner's admin
// profile: its average plus every individual rating.
type OwnerStoreView struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	Address       string       `json:"address"`
	AverageRating float64      `json:"averageRating"`
	Ratings       []RatingView `json:"ratings"`
}

// UserDetails is a public profile; Stores is set for Store Owners only.
type UserDetails struct {
	models.User
	Stores []OwnerStoreView `json:"stores,omitempty"`
}

type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
