package repositories

import "tokorating/internal/models"

// RatingRepository defines the interface for rating data access.
//
// Upsert must be atomic with respect to the one-rating-per-(user, store)
// invariant: two concurrent submissions for the same pair must leave exactly
// one row. When updateComment is false an existing rating keeps its prior
// comment. The returned flag reports whether a new row was created.
type RatingRepository interface {
	Upsert(rating *models.Rating, updateComment bool) (*models.Rating, bool, error)
	GetByStore(storeID string) ([]models.Rating, error)
	GetByUser(userID string) ([]models.Rating, error)
	AggregateByStore(storeID string) (models.RatingAggregate, error)
	GetRecent(limit int) ([]models.Rating, error)
	DeleteByStore(storeID string) error
	DeleteByUser(userID string) error
	Count() (int64, error)
}
