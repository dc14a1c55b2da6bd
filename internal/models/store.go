package models

import "gorm.io/gorm"

// Store represents a store listing owned by a store_owner user.
type Store struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email      string `json:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Address    string `json:"address" gorm:"type:varchar(400)" validate:"required,max=400"`
	OwnerID    string `json:"owner_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// StoreWithRating is a store enriched with its derived rating aggregate.
// The aggregate is always computed at read time, never persisted.
type StoreWithRating struct {
	Store
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// OwnerSummary is the slice of owner data exposed on admin store listings.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
