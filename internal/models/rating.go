package models

import "gorm.io/gorm"

// Rating is one user's rating of one store. The composite unique index on
// (user_id, store_id) is what guarantees at most one rating per pair; the
// repository upsert relies on it for its ON CONFLICT clause.
type Rating struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Value      int    `json:"value" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" gorm:"type:text"`
	UserID     string `json:"user_id" gorm:"uniqueIndex:idx_ratings_user_store;type:varchar(36)"`
	StoreID    string `json:"store_id" gorm:"uniqueIndex:idx_ratings_user_store;type:varchar(36)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// RatingAggregate is the derived summary over a store's ratings.
// Average is 0 (not null, not NaN) when Count is 0.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RaterSummary identifies the user behind a rating on public listings.
type RaterSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RatingWithUser is a rating enriched with its rater's name, returned by
// the public per-store rating listing.
type RatingWithUser struct {
	Rating
	User RaterSummary `json:"user"`
}

// RatedStoreSummary is the store data attached to a user's own ratings.
type RatedStoreSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// RatingWithStore is a rating enriched with its store, returned by the
// "my ratings" listing.
type RatingWithStore struct {
	Rating
	Store RatedStoreSummary `json:"store"`
}
