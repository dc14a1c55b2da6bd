package repositories

import (
	"fmt"

	"tokorating/internal/models"

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

// Upsert inserts the rating or, on conflict with the (user_id, store_id)
// unique index, updates the existing row in a single statement. The comment
// column only joins the conflict assignment set when updateComment is true,
// so a resubmission without a comment keeps the stored one.
func (r *GORMRatingRepository) Upsert(rating *models.Rating, updateComment bool) (*models.Rating, bool, error) {
	candidateID := uuid.New().String()
	rating.ID = candidateID

	assignments := []string{"value", "updated_at"}
	if updateComment {
		assignments = append(assignments, "comment")
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(rating).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert rating for user %s store %s: %w", rating.UserID, rating.StoreID, err)
	}

	// Re-read the row: on the conflict path the stored rating keeps its
	// original ID and, possibly, its original comment.
	var stored models.Rating
	if err := r.db.First(&stored, "user_id = ? AND store_id = ?", rating.UserID, rating.StoreID).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load upserted rating for user %s store %s: %w", rating.UserID, rating.StoreID, err)
	}

	return &stored, stored.ID == candidateID, nil
}

// GetByStore retrieves all ratings for a store, newest first.
func (r *GORMRatingRepository) GetByStore(storeID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Order("created_at DESC").Find(&ratings, "store_id = ?", storeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get ratings for store %s: %w", storeID, err)
	}
	return ratings, nil
}

// GetByUser retrieves all ratings submitted by a user, newest first.
func (r *GORMRatingRepository) GetByUser(userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Order("created_at DESC").Find(&ratings, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get ratings for user %s: %w", userID, err)
	}
	return ratings, nil
}

// AggregateByStore computes the average value and count over a store's
// ratings. A store with no ratings yields {0, 0}.
func (r *GORMRatingRepository) AggregateByStore(storeID string) (models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := r.db.Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Scan(&agg).Error
	if err != nil {
		return models.RatingAggregate{}, fmt.Errorf("failed to aggregate ratings for store %s: %w", storeID, err)
	}
	return agg, nil
}

// GetRecent retrieves the most recently created ratings.
func (r *GORMRatingRepository) GetRecent(limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent ratings: %w", err)
	}
	return ratings, nil
}

// DeleteByStore deletes all ratings for a store. Zero deletions is not an
// error; unrated stores are legal.
func (r *GORMRatingRepository) DeleteByStore(storeID string) error {
	if err := r.db.Delete(&models.Rating{}, "store_id = ?", storeID).Error; err != nil {
		return fmt.Errorf("failed to delete ratings for store %s: %w", storeID, err)
	}
	return nil
}

// DeleteByUser deletes all ratings submitted by a user.
func (r *GORMRatingRepository) DeleteByUser(userID string) error {
	if err := r.db.Delete(&models.Rating{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete ratings for user %s: %w", userID, err)
	}
	return nil
}

// Count returns the total number of ratings.
func (r *GORMRatingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
