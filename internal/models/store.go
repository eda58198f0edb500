package models

import "time"

// Store is a rateable shop, optionally owned by a Store Owner.
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(60);not null;index"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	Address   string    `json:"address" gorm:"type:varchar(400);not null"`
	OwnerID   *string   `json:"ownerId" gorm:"type:varchar(36);index"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID"`
	Ratings   []Rating  `json:"-" gorm:"foreignKey:StoreID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
